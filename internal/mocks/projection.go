package mocks

import (
	"context"

	"cafe-tab/internal/domain"

	"github.com/stretchr/testify/mock"
)

// Projection is a mock type for the projection.Projection type
type Projection struct {
	mock.Mock
}

func (_m *Projection) Name() string {
	ret := _m.Called()
	return ret.String(0)
}

func (_m *Projection) Handle(ctx context.Context, envs []domain.Envelope) error {
	ret := _m.Called(ctx, envs)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, []domain.Envelope) error); ok {
		r0 = rf(ctx, envs)
	} else {
		r0 = ret.Error(0)
	}
	return r0
}

// NewProjection creates a new instance of Projection. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewProjection(t interface {
	mock.TestingT
	Cleanup(func())
}) *Projection {
	m := &Projection{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
