package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	args := m.Called(ctx, system, user)
	if f, ok := args.Get(0).(func(context.Context, string, string) string); ok {
		return f(ctx, system, user), args.Error(1)
	}
	return args.String(0), args.Error(1)
}
