package match

import "github.com/mcdev12/shootout/go/internal/match/events"

// Handle is the transport's view of a live participant connection.
type Handle interface {
	// Emit delivers an event to the participant. It must not block on the network.
	Emit(eventType events.Type, payload any)
}

// Participant is a connected entity waiting in the queue or seated in a match.
type Participant struct {
	ID     string
	Label  string
	Handle Handle
}

// Seat says who controls a player: a live connection or the system.
// Implemented only by Connected and Synthetic.
type Seat interface {
	seat()
}

// Connected is a seat driven by a remote participant.
type Connected struct {
	Handle Handle
}

// Synthetic is a seat whose decisions are generated by the matchmaker.
type Synthetic struct{}

func (Connected) seat() {}
func (Synthetic) seat() {}

// Player is one participant's state within a match. Owned by its Match.
type Player struct {
	ID       string
	Label    string
	Role     Role
	Seat     Seat
	Decision Decision
	Score    int

	// dropped is set once a connected player disconnects mid-match.
	dropped bool
}

// emit sends to the player if it is still connected. Synthetic and dropped players are skipped.
func (p *Player) emit(eventType events.Type, payload any) {
	if p.dropped {
		return
	}
	switch s := p.Seat.(type) {
	case Connected:
		if s.Handle != nil {
			s.Handle.Emit(eventType, payload)
		}
	case Synthetic:
	}
}

func (p *Player) synthetic() bool {
	_, ok := p.Seat.(Synthetic)
	return ok
}
