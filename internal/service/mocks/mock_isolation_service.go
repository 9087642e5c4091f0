package mocks

import (
	"context"

	"dealdocs/internal/model"
	"dealdocs/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockIsolationService struct {
	mock.Mock
}

func (m *MockIsolationService) AssertOwnership(ctx context.Context, documentID, expectedDealID int64) error {
	args := m.Called(ctx, documentID, expectedDealID)
	return args.Error(0)
}

func (m *MockIsolationService) Move(ctx context.Context, documentID, toDealID int64, reason string) (*model.DocumentMove, error) {
	args := m.Called(ctx, documentID, toDealID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentMove), args.Error(1)
}

func (m *MockIsolationService) ListForDeal(ctx context.Context, dealID int64, limit, offset int) (*service.DocumentListResult, error) {
	args := m.Called(ctx, dealID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentListResult), args.Error(1)
}

func (m *MockIsolationService) History(ctx context.Context, documentID int64) ([]model.DocumentMove, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DocumentMove), args.Error(1)
}
