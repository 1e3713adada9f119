package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"cafe-tab/internal/domain"
	"cafe-tab/internal/mocks"
	"cafe-tab/internal/platform/logger"
	"cafe-tab/internal/projection"
	"cafe-tab/internal/service"
	"cafe-tab/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	steak = domain.OrderItem{MenuNumber: 1, Description: "Steak", UnitPrice: decimal.NewFromInt(10)}
	cola  = domain.OrderItem{MenuNumber: 2, Description: "Coca-Cola", IsDrink: true, UnitPrice: decimal.NewFromInt(5)}
)

func newInlineDispatcher(t *testing.T) (*service.Dispatcher, *storage.MemoryEventStore, projection.Views) {
	t.Helper()
	store := storage.NewMemoryEventStore()
	views := storage.NewMemoryViews()
	return service.NewDispatcher(store, views.All(), 3, logger.Nop()), store, views
}

func TestDispatcher_FullTab(t *testing.T) {
	ctx := context.Background()
	dispatcher, _, views := newInlineDispatcher(t)
	waiter := domain.NewWaiterID()

	id, envs, err := dispatcher.Execute(ctx, domain.TabID{}, domain.OpenTab{WaiterID: waiter, TableNumber: 1})
	require.NoError(t, err)
	require.Len(t, envs, 1)
	assert.False(t, id.IsZero())
	assert.Equal(t, int64(1), envs[0].Sequence)

	steps := []domain.Command{
		domain.PlaceOrder{Items: []domain.OrderItem{steak, cola}},
		domain.MarkFoodPrepared{MenuNumbers: []int{1}},
		domain.MarkFoodServed{MenuNumbers: []int{1}},
		domain.MarkDrinksServed{MenuNumbers: []int{2}},
	}
	for _, cmd := range steps {
		_, _, err := dispatcher.Execute(ctx, id, cmd)
		require.NoError(t, err)
	}

	kitchen, ok, err := views.Kitchen.Get(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, kitchen.Items)

	waiterTab, ok, err := views.Waiter.Get(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, waiterTab.Items)
	assert.Equal(t, waiter, waiterTab.WaiterID)

	_, envs, err = dispatcher.Execute(ctx, id, domain.CloseTab{AmountPaid: decimal.NewFromInt(16)})
	require.NoError(t, err)
	closed := envs[0].Event.(domain.TabClosed)
	assert.True(t, closed.OrderValue.Equal(decimal.NewFromInt(15)))
	assert.True(t, closed.TipValue.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, int64(7), envs[0].Sequence)

	state, err := dispatcher.State(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(7), state.Version)
	assert.True(t, state.Tab.Closed)

	_, _, err = dispatcher.Execute(ctx, id, domain.PlaceOrder{Items: []domain.OrderItem{steak}})
	assert.ErrorIs(t, err, domain.ErrTabClosed)
}

func TestDispatcher_BusinessErrorLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	dispatcher, store, _ := newInlineDispatcher(t)

	id, _, err := dispatcher.Execute(ctx, domain.TabID{}, domain.OpenTab{TableNumber: 2})
	require.NoError(t, err)

	_, _, err = dispatcher.Execute(ctx, id, domain.MarkFoodPrepared{MenuNumbers: []int{1}})
	assert.ErrorIs(t, err, domain.ErrFoodNotOutstanding)

	_, _, err = dispatcher.Execute(ctx, domain.NewTabID(), domain.PlaceOrder{Items: []domain.OrderItem{steak}})
	assert.ErrorIs(t, err, domain.ErrTabNotOpened)

	history, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestDispatcher_OpenTabWithChosenID(t *testing.T) {
	ctx := context.Background()
	dispatcher, _, _ := newInlineDispatcher(t)
	id := domain.NewTabID()

	got, _, err := dispatcher.Execute(ctx, id, domain.OpenTab{TableNumber: 4})
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, _, err = dispatcher.Execute(ctx, id, domain.OpenTab{TableNumber: 4})
	assert.ErrorIs(t, err, domain.ErrTabIsOpen)
}

func TestDispatcher_EmptyOrderAppendsNothing(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewEventStore(t)
	dispatcher := service.NewDispatcher(store, nil, 3, logger.Nop())
	id := domain.NewTabID()

	store.On("Load", ctx, id).Return([]domain.Envelope{
		domain.NewEnvelope(1, domain.TabOpened{ID: id}, time.Now()),
	}, nil).Once()

	_, envs, err := dispatcher.Execute(ctx, id, domain.PlaceOrder{})
	assert.NoError(t, err)
	assert.Empty(t, envs)
}

func TestDispatcher_RetriesOnConflict(t *testing.T) {
	ctx := context.Background()
	id := domain.NewTabID()
	opened := domain.NewEnvelope(1, domain.TabOpened{ID: id}, time.Now())
	ordered := domain.NewEnvelope(2, domain.FoodOrderPlaced{ID: id, MenuItem: domain.MenuLineItem{MenuNumber: 1, Quantity: 1}}, time.Now())
	conflict := storage.ErrConcurrencyConflict

	tests := []struct {
		name          string
		prepareMocks  func(store *mocks.EventStore)
		expectedError error
	}{
		{
			name: "success_after_one_conflict",
			prepareMocks: func(store *mocks.EventStore) {
				store.On("Load", ctx, id).Return([]domain.Envelope{opened}, nil).Once()
				store.On("Append", ctx, id, int64(1), mock.Anything).Return(nil, conflict).Once()
				store.On("Load", ctx, id).Return([]domain.Envelope{opened, ordered}, nil).Once()
				store.On("Append", ctx, id, int64(2), mock.Anything).
					Return([]domain.Envelope{domain.NewEnvelope(3, domain.FoodOrderPlaced{ID: id}, time.Now())}, nil).Once()
			},
		},
		{
			name: "error_retries_exhausted",
			prepareMocks: func(store *mocks.EventStore) {
				store.On("Load", ctx, id).Return([]domain.Envelope{opened}, nil).Times(3)
				store.On("Append", ctx, id, int64(1), mock.Anything).Return(nil, conflict).Times(3)
			},
			expectedError: service.ErrRetriesExhausted,
		},
		{
			name: "error_load_failure_not_retried",
			prepareMocks: func(store *mocks.EventStore) {
				store.On("Load", ctx, id).Return(nil, errors.New("connection refused")).Once()
			},
			expectedError: errors.New("connection refused"),
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			store := mocks.NewEventStore(t)
			testCase.prepareMocks(store)
			dispatcher := service.NewDispatcher(store, nil, 3, logger.Nop())

			_, _, err := dispatcher.Execute(ctx, id, domain.PlaceOrder{Items: []domain.OrderItem{steak}})

			switch {
			case testCase.expectedError == nil:
				assert.NoError(t, err)
			case errors.Is(testCase.expectedError, service.ErrRetriesExhausted):
				assert.ErrorIs(t, err, service.ErrRetriesExhausted)
				assert.ErrorIs(t, err, storage.ErrConcurrencyConflict)
			default:
				assert.ErrorContains(t, err, testCase.expectedError.Error())
			}
		})
	}
}

func TestDispatcher_ProjectionFailureDoesNotFailCommand(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryEventStore()
	failing := mocks.NewProjection(t)
	failing.On("Handle", ctx, mock.Anything).Return(errors.New("view store down")).Once()
	failing.On("Name").Return("broken").Maybe()
	dispatcher := service.NewDispatcher(store, []projection.Projection{failing}, 3, logger.Nop())

	id, envs, err := dispatcher.Execute(ctx, domain.TabID{}, domain.OpenTab{TableNumber: 1})
	require.NoError(t, err)
	assert.Len(t, envs, 1)

	history, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

// cancelAfterAppend cancels the command's context as soon as the append is
// committed, like an HTTP client hanging up mid-request.
type cancelAfterAppend struct {
	*storage.MemoryEventStore
	cancel context.CancelFunc
}

func (s cancelAfterAppend) Append(ctx context.Context, id domain.TabID, expected int64, events []domain.Event) ([]domain.Envelope, error) {
	envs, err := s.MemoryEventStore.Append(ctx, id, expected, events)
	s.cancel()
	return envs, err
}

func TestDispatcher_DeliversAfterCallerGoesAway(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store := cancelAfterAppend{MemoryEventStore: storage.NewMemoryEventStore(), cancel: cancel}

	var deliveredErr error
	recorder := mocks.NewProjection(t)
	recorder.On("Handle", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { deliveredErr = args.Get(0).(context.Context).Err() }).
		Return(nil).Once()
	recorder.On("Name").Return("recorder").Maybe()

	dispatcher := service.NewDispatcher(store, []projection.Projection{recorder}, 3, logger.Nop())
	_, envs, err := dispatcher.Execute(ctx, domain.TabID{}, domain.OpenTab{TableNumber: 5})

	require.NoError(t, err)
	assert.Len(t, envs, 1)
	assert.Error(t, ctx.Err())
	assert.NoError(t, deliveredErr)
}

func TestDispatcher_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dispatcher := service.NewDispatcher(mocks.NewEventStore(t), nil, 3, logger.Nop())

	_, _, err := dispatcher.Execute(ctx, domain.NewTabID(), domain.PlaceOrder{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDispatcher_ReadsAndRedeliver(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryEventStore()
	views := storage.NewMemoryViews()
	writeOnly := service.NewDispatcher(store, nil, 3, logger.Nop())

	id, _, err := writeOnly.Execute(ctx, domain.TabID{}, domain.OpenTab{TableNumber: 8})
	require.NoError(t, err)
	_, _, err = writeOnly.Execute(ctx, id, domain.PlaceOrder{Items: []domain.OrderItem{steak, steak}})
	require.NoError(t, err)

	_, err = writeOnly.State(ctx, domain.NewTabID())
	assert.ErrorIs(t, err, service.ErrTabNotFound)

	history, err := writeOnly.History(ctx, id)
	require.NoError(t, err)
	assert.Len(t, history, 3)

	withViews := service.NewDispatcher(store, views.All(), 3, logger.Nop())
	n, err := withViews.Redeliver(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = withViews.Redeliver(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	kitchen, ok, err := views.Kitchen.Get(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, kitchen.Items, 2)
}
