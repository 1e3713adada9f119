package mocks

import (
	"context"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/mock"
)

// MessageReader is a mock type for the service.MessageReader type
type MessageReader struct {
	mock.Mock
}

func (_m *MessageReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	ret := _m.Called(ctx)

	var r0 kafka.Message
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context) (kafka.Message, error)); ok {
		return rf(ctx)
	}
	if v, ok := ret.Get(0).(kafka.Message); ok {
		r0 = v
	}
	r1 = ret.Error(1)
	return r0, r1
}

func (_m *MessageReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	_va := make([]interface{}, len(msgs))
	for _i := range msgs {
		_va[_i] = msgs[_i]
	}
	var _ca []interface{}
	_ca = append(_ca, ctx)
	_ca = append(_ca, _va...)
	ret := _m.Called(_ca...)
	return ret.Error(0)
}

func (_m *MessageReader) Close() error {
	ret := _m.Called()
	return ret.Error(0)
}

// NewMessageReader creates a new instance of MessageReader. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMessageReader(t interface {
	mock.TestingT
	Cleanup(func())
}) *MessageReader {
	m := &MessageReader{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
