package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"docchat/internal/model"
	"docchat/internal/repository"
	"docchat/internal/storage"
)

// DocumentService defines the use cases for attaching files to sessions.
type DocumentService interface {
	// Upload stores the content in object storage, appends metadata to the
	// session, and rolls back storage if the metadata append fails.
	Upload(ctx context.Context, sessionID string, r io.Reader, filename string, contentType string, size int64) (*model.Document, error)

	// List returns the session's document metadata in upload order.
	List(ctx context.Context, sessionID string) ([]model.Document, error)

	// Detach removes every document with the given filename from the session
	// and frees the corresponding blobs.
	Detach(ctx context.Context, sessionID, filename string) error
}

type documentService struct {
	repo  repository.SessionRepository
	store storage.Storage
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(repo repository.SessionRepository, store storage.Storage) DocumentService {
	return &documentService{repo: repo, store: store}
}

func (s *documentService) Upload(ctx context.Context, sessionID string, r io.Reader, filename string, contentType string, size int64) (*model.Document, error) {
	if sessionID == "" {
		return nil, ErrSessionIDRequired
	}
	if filename == "" {
		return nil, ErrFilenameRequired
	}
	if r == nil {
		return nil, ErrReaderNil
	}

	// Verify the session exists before touching storage.
	if _, err := s.repo.FindByID(ctx, sessionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	// Blob keys are unique per upload; the original filename lives in metadata.
	key := filepath.ToSlash(filepath.Join("sessions", sessionID, uuid.New().String()+filepath.Ext(filename)))

	objInfo, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": filename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	doc := &model.Document{
		ID:         uuid.New().String(),
		SessionID:  sessionID,
		Filename:   filename,
		Type:       model.DetectDocType(filename),
		StorageKey: objInfo.Key,
		Size:       objInfo.Size,
		UploadedAt: time.Now().UTC(),
	}
	stored, err := s.repo.AppendDocument(ctx, sessionID, doc)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("metadata save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("metadata save failed: %w", err)
	}
	return stored, nil
}

func (s *documentService) List(ctx context.Context, sessionID string) ([]model.Document, error) {
	sess, err := s.findSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Documents, nil
}

// Detach removes the metadata rows first, then frees the blobs. A blob delete
// failure is reported but does not re-attach the document.
func (s *documentService) Detach(ctx context.Context, sessionID, filename string) error {
	if sessionID == "" {
		return ErrSessionIDRequired
	}
	if filename == "" {
		return ErrFilenameRequired
	}
	if _, err := s.findSession(ctx, sessionID); err != nil {
		return err
	}

	removed, err := s.repo.RemoveDocumentsByFilename(ctx, sessionID, filename)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrDocumentNotFound
		}
		return err
	}

	var blobErr error
	for _, doc := range removed {
		if err := s.store.Delete(ctx, doc.StorageKey); err != nil && blobErr == nil {
			blobErr = fmt.Errorf("release blob %s: %w", doc.StorageKey, err)
		}
	}
	return blobErr
}

func (s *documentService) findSession(ctx context.Context, sessionID string) (*model.Session, error) {
	if sessionID == "" {
		return nil, ErrSessionIDRequired
	}
	sess, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return sess, nil
}
