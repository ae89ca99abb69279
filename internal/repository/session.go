package repository

import (
	"context"

	"docchat/internal/model"
)

// SessionRepository defines data access for sessions, their attached document
// metadata and their chat history. SQL only — no business logic here.
//
// Append operations are single-row inserts, so concurrent appends against the
// same session are atomic at the row level.
type SessionRepository interface {
	// Create inserts a new session record and returns the stored session.
	Create(ctx context.Context, s *model.Session) (*model.Session, error)

	// FindByID returns a session with its documents (in upload order) and
	// full chat history (in append order). Returns sql.ErrNoRows if absent.
	FindByID(ctx context.Context, id string) (*model.Session, error)

	// ListAll returns summaries of every session, newest first, without chat history.
	ListAll(ctx context.Context) ([]model.SessionSummary, error)

	// AppendDocument attaches document metadata to a session.
	AppendDocument(ctx context.Context, sessionID string, doc *model.Document) (*model.Document, error)

	// RemoveDocumentsByFilename detaches every document with the given filename
	// and returns the removed metadata so callers can free the blobs.
	// Returns sql.ErrNoRows if no document matched.
	RemoveDocumentsByFilename(ctx context.Context, sessionID, filename string) ([]model.Document, error)

	// SetMode updates the session's answer mode.
	SetMode(ctx context.Context, sessionID string, mode model.Mode) error

	// AppendChatTurn appends one question/answer exchange to the session history.
	AppendChatTurn(ctx context.Context, sessionID string, turn *model.ChatTurn) error

	// Delete removes a session; attached metadata rows cascade.
	// Returns sql.ErrNoRows if the session did not exist.
	Delete(ctx context.Context, sessionID string) error
}
