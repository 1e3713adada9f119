package projection

import (
	"context"
	"errors"
	"fmt"

	"cafe-tab/internal/domain"
)

// ErrSequenceGap is returned when an envelope arrives before its predecessors
// were applied to a view.
var ErrSequenceGap = errors.New("sequence gap")

// Projection consumes committed envelopes in stream order.
type Projection interface {
	Name() string
	Handle(ctx context.Context, envs []domain.Envelope) error
}

// HistoryLoader returns a tab's full stream. EventStore implementations
// satisfy it.
type HistoryLoader interface {
	Load(ctx context.Context, id domain.TabID) ([]domain.Envelope, error)
}

// Deliver hands envs to p. When p reports a gap the affected tabs' histories are
// loaded and replayed; envelopes already applied are skipped by the view.
func Deliver(ctx context.Context, p Projection, envs []domain.Envelope, history HistoryLoader) error {
	err := p.Handle(ctx, envs)
	if err == nil || !errors.Is(err, ErrSequenceGap) || history == nil {
		return err
	}
	for _, id := range tabIDs(envs) {
		full, err := history.Load(ctx, id)
		if err != nil {
			return fmt.Errorf("%s: backfill tab %s: %w", p.Name(), id, err)
		}
		if err := p.Handle(ctx, full); err != nil {
			return err
		}
	}
	return nil
}

func tabIDs(envs []domain.Envelope) []domain.TabID {
	seen := make(map[domain.TabID]bool)
	var ids []domain.TabID
	for _, env := range envs {
		if !seen[env.TabID] {
			seen[env.TabID] = true
			ids = append(ids, env.TabID)
		}
	}
	return ids
}
