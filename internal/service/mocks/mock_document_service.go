package mocks

import (
	"context"

	"dealdocs/internal/model"
	"dealdocs/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Store(ctx context.Context, in service.StoreInput) (*model.Document, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Retrieve(ctx context.Context, documentID, expectedDealID int64) (*service.RetrieveResult, error) {
	args := m.Called(ctx, documentID, expectedDealID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RetrieveResult), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, documentID, expectedDealID int64) (*model.DocumentSummary, error) {
	args := m.Called(ctx, documentID, expectedDealID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentSummary), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, documentID, expectedDealID int64) error {
	args := m.Called(ctx, documentID, expectedDealID)
	return args.Error(0)
}
