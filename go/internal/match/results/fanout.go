package results

import (
	"context"
	"errors"
	"fmt"

	"github.com/mcdev12/shootout/go/internal/match"
	"github.com/mcdev12/shootout/go/internal/models"
)

// Fanout appends every record to each of its stores in order. A failing store does not
// stop the others; all failures are returned joined.
type Fanout []match.ResultStore

// NewFanout drops nil stores.
func NewFanout(stores ...match.ResultStore) Fanout {
	f := make(Fanout, 0, len(stores))
	for _, s := range stores {
		if s != nil {
			f = append(f, s)
		}
	}
	return f
}

// AppendMatch implements match.ResultStore.
func (f Fanout) AppendMatch(ctx context.Context, record models.MatchRecord) error {
	var errs []error
	for i, s := range f {
		if err := s.AppendMatch(ctx, record); err != nil {
			errs = append(errs, fmt.Errorf("store %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
