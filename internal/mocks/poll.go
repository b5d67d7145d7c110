package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/pageza/cucina/backend/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockPollRepository is a mock implementation of store.PollRepository
type MockPollRepository struct {
	mock.Mock
}

func (m *MockPollRepository) CreatePoll(ctx context.Context, poll *models.Poll) (uuid.UUID, error) {
	args := m.Called(ctx, poll)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockPollRepository) FetchAllPolls(ctx context.Context) ([]*models.Poll, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Poll), args.Error(1)
}

func (m *MockPollRepository) FetchPoll(ctx context.Context, id uuid.UUID) (*models.Poll, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Poll), args.Error(1)
}

func (m *MockPollRepository) UpdatePoll(ctx context.Context, poll *models.Poll) error {
	args := m.Called(ctx, poll)
	return args.Error(0)
}

func (m *MockPollRepository) DeletePoll(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
