package mocks

import (
	"context"
	"io"

	"docchat/internal/model"
	"docchat/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Create(ctx context.Context, description string) (*model.Session, error) {
	args := m.Called(ctx, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *MockSessionService) List(ctx context.Context) ([]model.SessionSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SessionSummary), args.Error(1)
}

func (m *MockSessionService) Get(ctx context.Context, id string) (*model.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *MockSessionService) ToggleMode(ctx context.Context, id string) (model.Mode, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Mode), args.Error(1)
}

func (m *MockSessionService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Upload(ctx context.Context, sessionID string, r io.Reader, filename string, contentType string, size int64) (*model.Document, error) {
	args := m.Called(ctx, sessionID, r, filename, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context, sessionID string) ([]model.Document, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentService) Detach(ctx context.Context, sessionID, filename string) error {
	args := m.Called(ctx, sessionID, filename)
	return args.Error(0)
}

type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) Ask(ctx context.Context, sessionID, question, modeOverride string) (*service.AskResult, error) {
	args := m.Called(ctx, sessionID, question, modeOverride)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AskResult), args.Error(1)
}

func (m *MockChatService) SearchDocuments(ctx context.Context, sessionID, query string) (*service.DocumentSearchResult, error) {
	args := m.Called(ctx, sessionID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentSearchResult), args.Error(1)
}

func (m *MockChatService) SearchChat(ctx context.Context, sessionID, query string) ([]service.ChatMatch, error) {
	args := m.Called(ctx, sessionID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.ChatMatch), args.Error(1)
}
