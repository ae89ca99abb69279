package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"docchat/internal/model"
	"docchat/internal/repository"
	"docchat/internal/storage"
)

// SessionService defines the use cases for session lifecycle and mode.
type SessionService interface {
	// Create starts a new session. An empty description gets a short default
	// derived from the generated identifier.
	Create(ctx context.Context, description string) (*model.Session, error)

	// List returns summaries of all sessions, without chat history.
	List(ctx context.Context) ([]model.SessionSummary, error)

	// Get returns a session with its documents and full chat history.
	Get(ctx context.Context, id string) (*model.Session, error)

	// ToggleMode flips the session between local and global and returns the new mode.
	ToggleMode(ctx context.Context, id string) (model.Mode, error)

	// Delete removes the session, releasing every attached blob. Blob release
	// failures are reported after the session row is gone.
	Delete(ctx context.Context, id string) error
}

type sessionService struct {
	repo  repository.SessionRepository
	store storage.Storage
}

// NewSessionService constructs a new SessionService.
func NewSessionService(repo repository.SessionRepository, store storage.Storage) SessionService {
	return &sessionService{repo: repo, store: store}
}

func (s *sessionService) Create(ctx context.Context, description string) (*model.Session, error) {
	id := uuid.New().String()
	if description == "" {
		description = "Session " + id[:6]
	}
	return s.repo.Create(ctx, &model.Session{
		ID:          id,
		Description: description,
		Mode:        model.ModeLocal,
		CreatedAt:   time.Now().UTC(),
	})
}

func (s *sessionService) List(ctx context.Context) ([]model.SessionSummary, error) {
	return s.repo.ListAll(ctx)
}

func (s *sessionService) Get(ctx context.Context, id string) (*model.Session, error) {
	if id == "" {
		return nil, ErrSessionIDRequired
	}
	sess, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return sess, nil
}

func (s *sessionService) ToggleMode(ctx context.Context, id string) (model.Mode, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	newMode := sess.Mode.Toggle()
	if err := s.repo.SetMode(ctx, id, newMode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrSessionNotFound
		}
		return "", err
	}
	return newMode, nil
}

// Delete removes the session row first, then releases the blobs. Failing blob
// deletes do not resurrect the session; the first failure is reported so the
// caller knows storage may hold orphans.
func (s *sessionService) Delete(ctx context.Context, id string) error {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSessionNotFound
		}
		return err
	}

	var blobErr error
	for _, doc := range sess.Documents {
		if err := s.store.Delete(ctx, doc.StorageKey); err != nil && blobErr == nil {
			blobErr = fmt.Errorf("release blob %s: %w", doc.StorageKey, err)
		}
	}
	return blobErr
}
