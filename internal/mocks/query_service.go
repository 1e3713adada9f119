package mocks

import (
	"context"

	"cafe-tab/internal/domain"
	"cafe-tab/internal/projection"

	"github.com/stretchr/testify/mock"
)

// QueryService is a mock type for the service.QueryService type
type QueryService struct {
	mock.Mock
}

func (_m *QueryService) KitchenQueue(ctx context.Context) ([]projection.KitchenTab, error) {
	ret := _m.Called(ctx)

	var r0 []projection.KitchenTab
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]projection.KitchenTab)
	}
	return r0, ret.Error(1)
}

func (_m *QueryService) KitchenTab(ctx context.Context, id domain.TabID) (projection.KitchenTab, error) {
	ret := _m.Called(ctx, id)

	var r0 projection.KitchenTab
	if v, ok := ret.Get(0).(projection.KitchenTab); ok {
		r0 = v
	}
	return r0, ret.Error(1)
}

func (_m *QueryService) WaiterQueue(ctx context.Context) ([]projection.WaiterTab, error) {
	ret := _m.Called(ctx)

	var r0 []projection.WaiterTab
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]projection.WaiterTab)
	}
	return r0, ret.Error(1)
}

func (_m *QueryService) WaiterTab(ctx context.Context, id domain.TabID) (projection.WaiterTab, error) {
	ret := _m.Called(ctx, id)

	var r0 projection.WaiterTab
	if v, ok := ret.Get(0).(projection.WaiterTab); ok {
		r0 = v
	}
	return r0, ret.Error(1)
}

func (_m *QueryService) WaiterTodo(ctx context.Context, waiterID domain.WaiterID) ([]projection.WaiterTab, error) {
	ret := _m.Called(ctx, waiterID)

	var r0 []projection.WaiterTab
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]projection.WaiterTab)
	}
	return r0, ret.Error(1)
}

func (_m *QueryService) ActiveTables(ctx context.Context) ([]int, error) {
	ret := _m.Called(ctx)

	var r0 []int
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]int)
	}
	return r0, ret.Error(1)
}

func (_m *QueryService) InvoiceForTable(ctx context.Context, table int) (projection.TabInvoice, error) {
	ret := _m.Called(ctx, table)

	var r0 projection.TabInvoice
	if v, ok := ret.Get(0).(projection.TabInvoice); ok {
		r0 = v
	}
	return r0, ret.Error(1)
}

func (_m *QueryService) TabForTable(ctx context.Context, table int) (domain.TabID, error) {
	ret := _m.Called(ctx, table)

	var r0 domain.TabID
	if v, ok := ret.Get(0).(domain.TabID); ok {
		r0 = v
	}
	return r0, ret.Error(1)
}

// NewQueryService creates a new instance of QueryService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewQueryService(t interface {
	mock.TestingT
	Cleanup(func())
}) *QueryService {
	m := &QueryService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
