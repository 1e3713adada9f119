package mocks

import (
	"context"

	"cafe-tab/internal/domain"

	"github.com/stretchr/testify/mock"
)

// EventStore is a mock type for the service.EventStore type
type EventStore struct {
	mock.Mock
}

func (_m *EventStore) Load(ctx context.Context, id domain.TabID) ([]domain.Envelope, error) {
	ret := _m.Called(ctx, id)

	var r0 []domain.Envelope
	if rf, ok := ret.Get(0).(func(context.Context, domain.TabID) []domain.Envelope); ok {
		r0 = rf(ctx, id)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Envelope)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, domain.TabID) error); ok {
		r1 = rf(ctx, id)
	} else {
		r1 = ret.Error(1)
	}
	return r0, r1
}

func (_m *EventStore) Append(ctx context.Context, id domain.TabID, expectedVersion int64, events []domain.Event) ([]domain.Envelope, error) {
	ret := _m.Called(ctx, id, expectedVersion, events)

	var r0 []domain.Envelope
	if rf, ok := ret.Get(0).(func(context.Context, domain.TabID, int64, []domain.Event) []domain.Envelope); ok {
		r0 = rf(ctx, id, expectedVersion, events)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Envelope)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, domain.TabID, int64, []domain.Event) error); ok {
		r1 = rf(ctx, id, expectedVersion, events)
	} else {
		r1 = ret.Error(1)
	}
	return r0, r1
}

// NewEventStore creates a new instance of EventStore. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewEventStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *EventStore {
	m := &EventStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
