package mocks

import (
	"context"

	"docchat/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, s *model.Session) (*model.Session, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *MockSessionRepository) FindByID(ctx context.Context, id string) (*model.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *MockSessionRepository) ListAll(ctx context.Context) ([]model.SessionSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SessionSummary), args.Error(1)
}

func (m *MockSessionRepository) AppendDocument(ctx context.Context, sessionID string, doc *model.Document) (*model.Document, error) {
	args := m.Called(ctx, sessionID, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	if f, ok := args.Get(0).(func(context.Context, string, *model.Document) *model.Document); ok {
		return f(ctx, sessionID, doc), args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockSessionRepository) RemoveDocumentsByFilename(ctx context.Context, sessionID, filename string) ([]model.Document, error) {
	args := m.Called(ctx, sessionID, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockSessionRepository) SetMode(ctx context.Context, sessionID string, mode model.Mode) error {
	args := m.Called(ctx, sessionID, mode)
	return args.Error(0)
}

func (m *MockSessionRepository) AppendChatTurn(ctx context.Context, sessionID string, turn *model.ChatTurn) error {
	args := m.Called(ctx, sessionID, turn)
	return args.Error(0)
}

func (m *MockSessionRepository) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}
