package service

import (
	"context"
	"errors"
	"fmt"

	"cafe-tab/internal/domain"
	"cafe-tab/internal/platform/logger"
	"cafe-tab/internal/projection"
	"cafe-tab/internal/storage"

	"github.com/shopspring/decimal"
)

const DefaultMaxAttempts = 3

var (
	ErrTabNotFound      = errors.New("tab not found")
	ErrRetriesExhausted = errors.New("retries exhausted")
)

// TabState is a tab folded from its stream together with the stream version.
type TabState struct {
	Tab      domain.Tab      `json:"tab"`
	Version  int64           `json:"version"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Dispatcher runs commands against tabs: load, fold, handle, append, then
// deliver the committed envelopes to projections.
type Dispatcher struct {
	store       EventStore
	projections []projection.Projection
	maxAttempts int
	log         *logger.Logger
}

func NewDispatcher(store EventStore, projections []projection.Projection, maxAttempts int, log *logger.Logger) *Dispatcher {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Dispatcher{
		store:       store,
		projections: projections,
		maxAttempts: maxAttempts,
		log:         log,
	}
}

// Execute applies cmd to tab id. OpenTab may pass a zero id, in which case a
// new one is minted and returned.
func (d *Dispatcher) Execute(ctx context.Context, id domain.TabID, cmd domain.Command) (domain.TabID, []domain.Envelope, error) {
	var lastErr error
	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return id, nil, err
		}

		streamID, envs, err := d.attempt(ctx, id, cmd)
		if err == nil {
			// The append is committed; a caller that stops waiting must not
			// keep the envelopes from the views.
			d.deliver(context.WithoutCancel(ctx), envs)
			return streamID, envs, nil
		}
		if !errors.Is(err, storage.ErrConcurrencyConflict) {
			return id, nil, err
		}
		lastErr = err
		d.log.Warn("append conflict", "tab_id", streamID.String(), "attempt", attempt, "error", err)
	}
	return id, nil, fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, d.maxAttempts, lastErr)
}

func (d *Dispatcher) attempt(ctx context.Context, id domain.TabID, cmd domain.Command) (domain.TabID, []domain.Envelope, error) {
	var history []domain.Envelope
	if _, opening := cmd.(domain.OpenTab); !opening || !id.IsZero() {
		loaded, err := d.store.Load(ctx, id)
		if err != nil {
			return id, nil, fmt.Errorf("load tab %s: %w", id, err)
		}
		history = loaded
	}

	state, err := domain.Fold(domain.Events(history))
	if err != nil {
		return id, nil, fmt.Errorf("fold tab %s: %w", id, err)
	}
	if state.ID.IsZero() {
		state.ID = id
	}

	events, err := state.Handle(cmd)
	if err != nil {
		return id, nil, err
	}
	if len(events) == 0 {
		return id, nil, nil
	}

	streamID := events[0].AggregateID()
	envs, err := d.store.Append(ctx, streamID, domain.LastSequence(history), events)
	if err != nil {
		return streamID, nil, err
	}
	return streamID, envs, nil
}

// deliver never fails the command; a projection that falls behind catches up
// on its next delivery or through Redeliver.
func (d *Dispatcher) deliver(ctx context.Context, envs []domain.Envelope) {
	if len(envs) == 0 {
		return
	}
	for _, p := range d.projections {
		if err := projection.Deliver(ctx, p, envs, d.store); err != nil {
			d.log.Error("projection failed",
				"projection", p.Name(),
				"tab_id", envs[0].TabID.String(),
				"sequence", envs[len(envs)-1].Sequence,
				"error", err,
			)
		}
	}
}

func (d *Dispatcher) State(ctx context.Context, id domain.TabID) (TabState, error) {
	history, err := d.History(ctx, id)
	if err != nil {
		return TabState{}, err
	}
	tab, err := domain.Fold(domain.Events(history))
	if err != nil {
		return TabState{}, err
	}
	return TabState{Tab: tab, Version: domain.LastSequence(history), Subtotal: tab.Subtotal()}, nil
}

func (d *Dispatcher) History(ctx context.Context, id domain.TabID) ([]domain.Envelope, error) {
	history, err := d.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, ErrTabNotFound
	}
	return history, nil
}

// Redeliver hands a tab's whole stream to every projection again. Views skip
// what they already applied.
func (d *Dispatcher) Redeliver(ctx context.Context, id domain.TabID) (int, error) {
	history, err := d.History(ctx, id)
	if err != nil {
		return 0, err
	}
	var errs []error
	for _, p := range d.projections {
		if err := p.Handle(ctx, history); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
		}
	}
	return len(history), errors.Join(errs...)
}
