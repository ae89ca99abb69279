package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"

	"docchat/internal/model"
	repomocks "docchat/internal/repository/mocks"
	"docchat/internal/storage"
	storagemocks "docchat/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDocumentService_Upload(t *testing.T) {
	content := strings.NewReader("hello world")

	t.Run("success", func(t *testing.T) {
		repo := new(repomocks.MockSessionRepository)
		store := new(storagemocks.MockStorage)
		svc := NewDocumentService(repo, store)

		repo.On("FindByID", mock.Anything, "s1").Return(&model.Session{ID: "s1"}, nil)
		store.On("Put", mock.Anything, mock.AnythingOfType("string"), content,
			mock.MatchedBy(func(opt storage.PutObjectOptions) bool {
				return opt.Size == 11 &&
					opt.ContentType == "text/plain" &&
					opt.Metadata["original-filename"] == "notes.txt"
			})).
			Return(func(_ context.Context, key string, _ io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
				return storage.ObjectInfo{Key: key, Size: opt.Size}
			}, nil)
		repo.On("AppendDocument", mock.Anything, "s1", mock.AnythingOfType("*model.Document")).
			Return(func(_ context.Context, _ string, doc *model.Document) *model.Document {
				return doc
			}, nil)

		doc, err := svc.Upload(context.Background(), "s1", content, "notes.txt", "text/plain", 11)
		require.NoError(t, err)
		assert.Equal(t, "notes.txt", doc.Filename)
		assert.Equal(t, model.DocTypeTxt, doc.Type)
		assert.Equal(t, int64(11), doc.Size)
		assert.True(t, strings.HasPrefix(doc.StorageKey, "sessions/s1/"))
		assert.True(t, strings.HasSuffix(doc.StorageKey, ".txt"))

		repo.AssertExpectations(t)
		store.AssertExpectations(t)
	})

	t.Run("metadata save failure rolls back the blob", func(t *testing.T) {
		repo := new(repomocks.MockSessionRepository)
		store := new(storagemocks.MockStorage)
		svc := NewDocumentService(repo, store)

		repo.On("FindByID", mock.Anything, "s1").Return(&model.Session{ID: "s1"}, nil)
		store.On("Put", mock.Anything, mock.AnythingOfType("string"), mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{Key: "sessions/s1/blob.txt", Size: 11}, nil)
		repo.On("AppendDocument", mock.Anything, "s1", mock.Anything).
			Return(nil, errors.New("connection reset"))
		store.On("Delete", mock.Anything, mock.AnythingOfType("string")).Return(nil)

		_, err := svc.Upload(context.Background(), "s1", content, "notes.txt", "text/plain", 11)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "metadata save failed")
		store.AssertCalled(t, "Delete", mock.Anything, mock.AnythingOfType("string"))
	})

	t.Run("rollback failure is reported alongside the cause", func(t *testing.T) {
		repo := new(repomocks.MockSessionRepository)
		store := new(storagemocks.MockStorage)
		svc := NewDocumentService(repo, store)

		repo.On("FindByID", mock.Anything, "s1").Return(&model.Session{ID: "s1"}, nil)
		store.On("Put", mock.Anything, mock.AnythingOfType("string"), mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{Key: "sessions/s1/blob.txt"}, nil)
		repo.On("AppendDocument", mock.Anything, "s1", mock.Anything).
			Return(nil, errors.New("connection reset"))
		store.On("Delete", mock.Anything, mock.AnythingOfType("string")).
			Return(errors.New("bucket unreachable"))

		_, err := svc.Upload(context.Background(), "s1", content, "notes.txt", "text/plain", 11)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "metadata save failed")
		assert.Contains(t, err.Error(), "rollback delete failed")
	})

	t.Run("storage failure leaves no metadata", func(t *testing.T) {
		repo := new(repomocks.MockSessionRepository)
		store := new(storagemocks.MockStorage)
		svc := NewDocumentService(repo, store)

		repo.On("FindByID", mock.Anything, "s1").Return(&model.Session{ID: "s1"}, nil)
		store.On("Put", mock.Anything, mock.AnythingOfType("string"), mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{}, errors.New("bucket unreachable"))

		_, err := svc.Upload(context.Background(), "s1", content, "notes.txt", "text/plain", 11)
		require.Error(t, err)
		repo.AssertNotCalled(t, "AppendDocument", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown session never touches storage", func(t *testing.T) {
		repo := new(repomocks.MockSessionRepository)
		store := new(storagemocks.MockStorage)
		svc := NewDocumentService(repo, store)

		repo.On("FindByID", mock.Anything, "nope").Return(nil, sql.ErrNoRows)

		_, err := svc.Upload(context.Background(), "nope", content, "notes.txt", "text/plain", 11)
		assert.ErrorIs(t, err, ErrSessionNotFound)
		store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("validation", func(t *testing.T) {
		repo := new(repomocks.MockSessionRepository)
		svc := NewDocumentService(repo, new(storagemocks.MockStorage))

		_, err := svc.Upload(context.Background(), "", content, "notes.txt", "", 11)
		assert.ErrorIs(t, err, ErrSessionIDRequired)

		_, err = svc.Upload(context.Background(), "s1", content, "", "", 11)
		assert.ErrorIs(t, err, ErrFilenameRequired)

		_, err = svc.Upload(context.Background(), "s1", nil, "notes.txt", "", 11)
		assert.ErrorIs(t, err, ErrReaderNil)
	})
}

func TestDocumentService_UploadRoundTrip(t *testing.T) {
	newRepo := func() *repomocks.MockSessionRepository {
		repo := new(repomocks.MockSessionRepository)
		repo.On("FindByID", mock.Anything, "s1").Return(&model.Session{ID: "s1"}, nil)
		repo.On("AppendDocument", mock.Anything, "s1", mock.AnythingOfType("*model.Document")).
			Return(func(_ context.Context, _ string, doc *model.Document) *model.Document {
				return doc
			}, nil)
		return repo
	}

	t.Run("stored bytes come back binary-exact", func(t *testing.T) {
		store := storagemocks.NewMemStorage()
		svc := NewDocumentService(newRepo(), store)

		original := []byte{0x00, 0xff, 0x10, 'a', 0x00, 0xfe, '\n', 0x80}
		doc, err := svc.Upload(context.Background(), "s1", bytes.NewReader(original), "blob.bin", "application/octet-stream", int64(len(original)))
		require.NoError(t, err)

		fetched, err := fetchBlob(context.Background(), store, doc.StorageKey)
		require.NoError(t, err)
		assert.Equal(t, original, fetched)
	})

	t.Run("assembly sees the uploaded text unmodified", func(t *testing.T) {
		store := storagemocks.NewMemStorage()
		svc := NewDocumentService(newRepo(), store)

		text := "First line.\nSecond line with ünïcode."
		doc, err := svc.Upload(context.Background(), "s1", strings.NewReader(text), "notes.txt", "text/plain", int64(len(text)))
		require.NoError(t, err)

		assembled, reports := assembleContext(context.Background(), store, []model.Document{*doc})
		assert.Equal(t, text, assembled)
		require.Len(t, reports, 1)
		assert.True(t, reports[0].Extracted)
	})
}

func TestDocumentService_List(t *testing.T) {
	repo := new(repomocks.MockSessionRepository)
	svc := NewDocumentService(repo, new(storagemocks.MockStorage))

	docs := []model.Document{{Filename: "a.txt"}, {Filename: "b.pdf"}}
	repo.On("FindByID", mock.Anything, "s1").Return(&model.Session{ID: "s1", Documents: docs}, nil)

	got, err := svc.List(context.Background(), "s1")
	assert.NoError(t, err)
	assert.Equal(t, docs, got)
}

func TestDocumentService_Detach(t *testing.T) {
	t.Run("removes every copy and frees blobs", func(t *testing.T) {
		repo := new(repomocks.MockSessionRepository)
		store := new(storagemocks.MockStorage)
		svc := NewDocumentService(repo, store)

		removed := []model.Document{
			{Filename: "dup.txt", StorageKey: "sessions/s1/k1.txt"},
			{Filename: "dup.txt", StorageKey: "sessions/s1/k2.txt"},
		}
		repo.On("FindByID", mock.Anything, "s1").Return(&model.Session{ID: "s1"}, nil)
		repo.On("RemoveDocumentsByFilename", mock.Anything, "s1", "dup.txt").Return(removed, nil)
		store.On("Delete", mock.Anything, "sessions/s1/k1.txt").Return(nil)
		store.On("Delete", mock.Anything, "sessions/s1/k2.txt").Return(nil)

		err := svc.Detach(context.Background(), "s1", "dup.txt")
		assert.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("filename not attached", func(t *testing.T) {
		repo := new(repomocks.MockSessionRepository)
		store := new(storagemocks.MockStorage)
		svc := NewDocumentService(repo, store)

		repo.On("FindByID", mock.Anything, "s1").Return(&model.Session{ID: "s1"}, nil)
		repo.On("RemoveDocumentsByFilename", mock.Anything, "s1", "ghost.txt").Return(nil, sql.ErrNoRows)

		err := svc.Detach(context.Background(), "s1", "ghost.txt")
		assert.ErrorIs(t, err, ErrDocumentNotFound)
		store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("validation", func(t *testing.T) {
		svc := NewDocumentService(new(repomocks.MockSessionRepository), new(storagemocks.MockStorage))

		assert.ErrorIs(t, svc.Detach(context.Background(), "", "a.txt"), ErrSessionIDRequired)
		assert.ErrorIs(t, svc.Detach(context.Background(), "s1", ""), ErrFilenameRequired)
	})
}
