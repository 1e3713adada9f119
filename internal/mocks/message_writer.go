package mocks

import (
	"context"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/mock"
)

// MessageWriter is a mock type for the storage.MessageWriter type
type MessageWriter struct {
	mock.Mock
}

func (_m *MessageWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	_va := make([]interface{}, len(msgs))
	for _i := range msgs {
		_va[_i] = msgs[_i]
	}
	var _ca []interface{}
	_ca = append(_ca, ctx)
	_ca = append(_ca, _va...)
	ret := _m.Called(_ca...)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, ...kafka.Message) error); ok {
		r0 = rf(ctx, msgs...)
	} else {
		r0 = ret.Error(0)
	}
	return r0
}

// NewMessageWriter creates a new instance of MessageWriter. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMessageWriter(t interface {
	mock.TestingT
	Cleanup(func())
}) *MessageWriter {
	m := &MessageWriter{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
