package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockMessagePublisher implements infrastructure.MessagePublisher.
type MockMessagePublisher struct {
	mock.Mock
}

func (m *MockMessagePublisher) PublishMessage(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}
