package match

import (
	"math/rand"
	"sync"
	"time"
)

// DecisionStrategy produces decisions for the synthetic opponent and for players
// who miss a round deadline.
type DecisionStrategy interface {
	Decide() Decision
}

// RandomStrategy picks each dimension uniformly at random.
type RandomStrategy struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomStrategy constructs a RandomStrategy with its own seed.
func NewRandomStrategy() *RandomStrategy {
	src := rand.NewSource(time.Now().UnixNano())
	return &RandomStrategy{rng: rand.New(src)}
}

// Decide implements DecisionStrategy.
func (s *RandomStrategy) Decide() Decision {
	// rand.Rand is not safe for concurrent use and matches run in parallel
	s.mu.Lock()
	defer s.mu.Unlock()
	return Decision{
		Height: heights[s.rng.Intn(len(heights))],
		Side:   sides[s.rng.Intn(len(sides))],
	}
}

// FixedStrategy always returns the same decision.
type FixedStrategy struct {
	Decision Decision
}

// Decide implements DecisionStrategy.
func (s FixedStrategy) Decide() Decision {
	return s.Decision
}
