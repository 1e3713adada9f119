package mocks

import (
	"context"

	"cafe-tab/internal/domain"
	"cafe-tab/internal/service"

	"github.com/stretchr/testify/mock"
)

// CommandService is a mock type for the service.CommandService type
type CommandService struct {
	mock.Mock
}

func (_m *CommandService) Execute(ctx context.Context, id domain.TabID, cmd domain.Command) (domain.TabID, []domain.Envelope, error) {
	ret := _m.Called(ctx, id, cmd)

	var r0 domain.TabID
	if v, ok := ret.Get(0).(domain.TabID); ok {
		r0 = v
	}
	var r1 []domain.Envelope
	if ret.Get(1) != nil {
		r1 = ret.Get(1).([]domain.Envelope)
	}
	return r0, r1, ret.Error(2)
}

func (_m *CommandService) State(ctx context.Context, id domain.TabID) (service.TabState, error) {
	ret := _m.Called(ctx, id)

	var r0 service.TabState
	if v, ok := ret.Get(0).(service.TabState); ok {
		r0 = v
	}
	return r0, ret.Error(1)
}

func (_m *CommandService) History(ctx context.Context, id domain.TabID) ([]domain.Envelope, error) {
	ret := _m.Called(ctx, id)

	var r0 []domain.Envelope
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Envelope)
	}
	return r0, ret.Error(1)
}

func (_m *CommandService) Redeliver(ctx context.Context, id domain.TabID) (int, error) {
	ret := _m.Called(ctx, id)
	return ret.Int(0), ret.Error(1)
}

// NewCommandService creates a new instance of CommandService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewCommandService(t interface {
	mock.TestingT
	Cleanup(func())
}) *CommandService {
	m := &CommandService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
