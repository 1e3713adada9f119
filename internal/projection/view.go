package projection

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"cafe-tab/internal/domain"
)

// Record is what a view store keeps per tab: the view and the sequence of the
// last envelope folded into it.
type Record[V any] struct {
	Sequence int64 `json:"sequence"`
	Present  bool  `json:"present"`
	View     V     `json:"view"`
}

type ViewStore[V any] interface {
	Load(ctx context.Context, key string) (V, bool, error)
	Save(ctx context.Context, key string, v V) error
	List(ctx context.Context) ([]V, error)
}

// UpdateFunc folds one envelope into a view. The second result reports whether
// the envelope concerned the view at all.
type UpdateFunc[V any] func(view V, env domain.Envelope) (V, bool)

// View is a checkpointed projection keyed by tab.
type View[V any] struct {
	name   string
	store  ViewStore[Record[V]]
	update UpdateFunc[V]

	mu sync.Mutex
}

func NewView[V any](name string, store ViewStore[Record[V]], update UpdateFunc[V]) *View[V] {
	return &View[V]{name: name, store: store, update: update}
}

func (v *View[V]) Name() string { return v.name }

func (v *View[V]) Handle(ctx context.Context, envs []domain.Envelope) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	records := make(map[domain.TabID]Record[V])
	var dirty []domain.TabID
	for _, env := range envs {
		rec, ok := records[env.TabID]
		if !ok {
			loaded, _, err := v.store.Load(ctx, env.TabID.String())
			if err != nil {
				return fmt.Errorf("%s: load %s: %w", v.name, env.TabID, err)
			}
			rec = loaded
			records[env.TabID] = rec
		}

		if env.Sequence <= rec.Sequence {
			continue
		}
		if env.Sequence > rec.Sequence+1 {
			if err := v.saveAll(ctx, records, dirty); err != nil {
				return err
			}
			return fmt.Errorf("%s: tab %s at %d, got %d: %w", v.name, env.TabID, rec.Sequence, env.Sequence, ErrSequenceGap)
		}

		if next, touched := v.update(rec.View, env); touched {
			rec.View = next
			rec.Present = true
		}
		if !slices.Contains(dirty, env.TabID) {
			dirty = append(dirty, env.TabID)
		}
		rec.Sequence = env.Sequence
		records[env.TabID] = rec
	}
	return v.saveAll(ctx, records, dirty)
}

func (v *View[V]) saveAll(ctx context.Context, records map[domain.TabID]Record[V], ids []domain.TabID) error {
	for _, id := range ids {
		if err := v.store.Save(ctx, id.String(), records[id]); err != nil {
			return fmt.Errorf("%s: save %s: %w", v.name, id, err)
		}
	}
	return nil
}

// Get returns the view for one tab.
func (v *View[V]) Get(ctx context.Context, id domain.TabID) (V, bool, error) {
	rec, ok, err := v.store.Load(ctx, id.String())
	if err != nil || !ok || !rec.Present {
		var zero V
		return zero, false, err
	}
	return rec.View, true, nil
}

// All returns every view that has been touched by at least one envelope.
func (v *View[V]) All(ctx context.Context) ([]V, error) {
	recs, err := v.store.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]V, 0, len(recs))
	for _, rec := range recs {
		if rec.Present {
			views = append(views, rec.View)
		}
	}
	return views, nil
}
