package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"docchat/internal/model"
	repomocks "docchat/internal/repository/mocks"
	storagemocks "docchat/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSessionService_Create(t *testing.T) {
	t.Run("empty description gets a default", func(t *testing.T) {
		repo := new(repomocks.MockSessionRepository)
		svc := NewSessionService(repo, new(storagemocks.MockStorage))

		var captured *model.Session
		repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Session")).
			Run(func(args mock.Arguments) {
				captured = args.Get(1).(*model.Session)
			}).
			Return(&model.Session{ID: "stored"}, nil)

		_, err := svc.Create(context.Background(), "")
		require.NoError(t, err)
		require.NotNil(t, captured)
		assert.Equal(t, "Session "+captured.ID[:6], captured.Description)
		assert.Equal(t, model.ModeLocal, captured.Mode)
		assert.False(t, captured.CreatedAt.IsZero())
		repo.AssertExpectations(t)
	})

	t.Run("explicit description is kept", func(t *testing.T) {
		repo := new(repomocks.MockSessionRepository)
		svc := NewSessionService(repo, new(storagemocks.MockStorage))

		var captured *model.Session
		repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Session")).
			Run(func(args mock.Arguments) {
				captured = args.Get(1).(*model.Session)
			}).
			Return(&model.Session{ID: "stored"}, nil)

		_, err := svc.Create(context.Background(), "Quarterly report review")
		require.NoError(t, err)
		assert.Equal(t, "Quarterly report review", captured.Description)
	})

	t.Run("generated ids differ per call", func(t *testing.T) {
		repo := new(repomocks.MockSessionRepository)
		svc := NewSessionService(repo, new(storagemocks.MockStorage))

		seen := map[string]bool{}
		repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Session")).
			Run(func(args mock.Arguments) {
				seen[args.Get(1).(*model.Session).ID] = true
			}).
			Return(&model.Session{}, nil)

		for i := 0; i < 3; i++ {
			_, err := svc.Create(context.Background(), "s")
			require.NoError(t, err)
		}
		assert.Len(t, seen, 3)
	})
}

func TestSessionService_Get(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		setup   func(repo *repomocks.MockSessionRepository)
		wantErr error
	}{
		{
			name:    "empty id",
			id:      "",
			setup:   func(repo *repomocks.MockSessionRepository) {},
			wantErr: ErrSessionIDRequired,
		},
		{
			name: "not found",
			id:   "missing",
			setup: func(repo *repomocks.MockSessionRepository) {
				repo.On("FindByID", mock.Anything, "missing").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrSessionNotFound,
		},
		{
			name: "found",
			id:   "s1",
			setup: func(repo *repomocks.MockSessionRepository) {
				repo.On("FindByID", mock.Anything, "s1").Return(&model.Session{ID: "s1"}, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(repomocks.MockSessionRepository)
			tt.setup(repo)
			svc := NewSessionService(repo, new(storagemocks.MockStorage))

			sess, err := svc.Get(context.Background(), tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, sess)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.id, sess.ID)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestSessionService_ToggleMode(t *testing.T) {
	t.Run("local flips to global", func(t *testing.T) {
		repo := new(repomocks.MockSessionRepository)
		repo.On("FindByID", mock.Anything, "s1").Return(&model.Session{ID: "s1", Mode: model.ModeLocal}, nil)
		repo.On("SetMode", mock.Anything, "s1", model.ModeGlobal).Return(nil)
		svc := NewSessionService(repo, new(storagemocks.MockStorage))

		newMode, err := svc.ToggleMode(context.Background(), "s1")
		assert.NoError(t, err)
		assert.Equal(t, model.ModeGlobal, newMode)
		repo.AssertExpectations(t)
	})

	t.Run("global flips back to local", func(t *testing.T) {
		repo := new(repomocks.MockSessionRepository)
		repo.On("FindByID", mock.Anything, "s1").Return(&model.Session{ID: "s1", Mode: model.ModeGlobal}, nil)
		repo.On("SetMode", mock.Anything, "s1", model.ModeLocal).Return(nil)
		svc := NewSessionService(repo, new(storagemocks.MockStorage))

		newMode, err := svc.ToggleMode(context.Background(), "s1")
		assert.NoError(t, err)
		assert.Equal(t, model.ModeLocal, newMode)
	})

	t.Run("session vanishes between read and write", func(t *testing.T) {
		repo := new(repomocks.MockSessionRepository)
		repo.On("FindByID", mock.Anything, "s1").Return(&model.Session{ID: "s1", Mode: model.ModeLocal}, nil)
		repo.On("SetMode", mock.Anything, "s1", model.ModeGlobal).Return(sql.ErrNoRows)
		svc := NewSessionService(repo, new(storagemocks.MockStorage))

		_, err := svc.ToggleMode(context.Background(), "s1")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})
}

func TestSessionService_Delete(t *testing.T) {
	docs := []model.Document{
		{Filename: "a.txt", StorageKey: "sessions/s1/a"},
		{Filename: "b.pdf", StorageKey: "sessions/s1/b"},
	}

	t.Run("row removed then blobs released", func(t *testing.T) {
		repo := new(repomocks.MockSessionRepository)
		store := new(storagemocks.MockStorage)
		repo.On("FindByID", mock.Anything, "s1").Return(&model.Session{ID: "s1", Documents: docs}, nil)
		repo.On("Delete", mock.Anything, "s1").Return(nil)
		store.On("Delete", mock.Anything, "sessions/s1/a").Return(nil)
		store.On("Delete", mock.Anything, "sessions/s1/b").Return(nil)
		svc := NewSessionService(repo, store)

		err := svc.Delete(context.Background(), "s1")
		assert.NoError(t, err)
		repo.AssertExpectations(t)
		store.AssertExpectations(t)
	})

	t.Run("blob failure reported, session stays deleted", func(t *testing.T) {
		repo := new(repomocks.MockSessionRepository)
		store := new(storagemocks.MockStorage)
		repo.On("FindByID", mock.Anything, "s1").Return(&model.Session{ID: "s1", Documents: docs}, nil)
		repo.On("Delete", mock.Anything, "s1").Return(nil)
		store.On("Delete", mock.Anything, "sessions/s1/a").Return(errors.New("bucket unreachable"))
		store.On("Delete", mock.Anything, "sessions/s1/b").Return(nil)
		svc := NewSessionService(repo, store)

		err := svc.Delete(context.Background(), "s1")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "sessions/s1/a")
		// Remaining blobs were still attempted.
		store.AssertExpectations(t)
	})

	t.Run("unknown session", func(t *testing.T) {
		repo := new(repomocks.MockSessionRepository)
		store := new(storagemocks.MockStorage)
		repo.On("FindByID", mock.Anything, "nope").Return(nil, sql.ErrNoRows)
		svc := NewSessionService(repo, store)

		err := svc.Delete(context.Background(), "nope")
		assert.ErrorIs(t, err, ErrSessionNotFound)
		store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
