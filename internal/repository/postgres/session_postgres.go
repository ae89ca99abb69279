package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"docchat/internal/model"
	"docchat/internal/repository"
)

// SessionPostgres is a PostgreSQL implementation of repository.SessionRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type SessionPostgres struct {
	db *sql.DB
}

// NewSessionPostgres creates a new SessionPostgres repository.
func NewSessionPostgres(db *sql.DB) *SessionPostgres {
	return &SessionPostgres{db: db}
}

var _ repository.SessionRepository = (*SessionPostgres)(nil)

// invalidTextRepresentation is SQLSTATE 22P02, raised when a parameter cannot
// be cast to the column type (here: a session id that is not a uuid).
const invalidTextRepresentation = "22P02"

// mapIDError folds the uuid cast failure into sql.ErrNoRows: a string that
// cannot be a session id cannot name an existing session.
func mapIDError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation {
		return sql.ErrNoRows
	}
	return err
}

// Create inserts a new session row and returns the stored record.
func (r *SessionPostgres) Create(ctx context.Context, s *model.Session) (*model.Session, error) {
	const q = `
		INSERT INTO sessions (id, description, mode, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, description, mode, created_at
	`
	row := r.db.QueryRowContext(ctx, q, s.ID, s.Description, s.Mode, s.CreatedAt)
	var out model.Session
	if err := row.Scan(&out.ID, &out.Description, &out.Mode, &out.CreatedAt); err != nil {
		return nil, err
	}
	out.Documents = []model.Document{}
	out.ChatHistory = []model.ChatTurn{}
	return &out, nil
}

// FindByID fetches a session together with its attached documents and chat
// history. Document order is upload order; history order is append order.
func (r *SessionPostgres) FindByID(ctx context.Context, id string) (*model.Session, error) {
	const q = `
		SELECT id, description, mode, created_at
		FROM sessions
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, q, id)
	var s model.Session
	if err := row.Scan(&s.ID, &s.Description, &s.Mode, &s.CreatedAt); err != nil {
		return nil, mapIDError(err)
	}

	docs, err := r.findDocuments(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Documents = docs

	turns, err := r.findChatTurns(ctx, id)
	if err != nil {
		return nil, err
	}
	s.ChatHistory = turns

	return &s, nil
}

func (r *SessionPostgres) findDocuments(ctx context.Context, sessionID string) ([]model.Document, error) {
	const q = `
		SELECT id, session_id, filename, doc_type, storage_key, size, uploaded_at
		FROM session_documents
		WHERE session_id = $1
		ORDER BY uploaded_at ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, q, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]model.Document, 0)
	for rows.Next() {
		var d model.Document
		if err := rows.Scan(
			&d.ID,
			&d.SessionID,
			&d.Filename,
			&d.Type,
			&d.StorageKey,
			&d.Size,
			&d.UploadedAt,
		); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (r *SessionPostgres) findChatTurns(ctx context.Context, sessionID string) ([]model.ChatTurn, error) {
	const q = `
		SELECT question, answer, mode, created_at
		FROM chat_turns
		WHERE session_id = $1
		ORDER BY id ASC
	`
	rows, err := r.db.QueryContext(ctx, q, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	turns := make([]model.ChatTurn, 0)
	for rows.Next() {
		var t model.ChatTurn
		if err := rows.Scan(&t.Question, &t.Answer, &t.Mode, &t.CreatedAt); err != nil {
			return nil, err
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

// ListAll returns session summaries, newest first, with a document count per session.
func (r *SessionPostgres) ListAll(ctx context.Context) ([]model.SessionSummary, error) {
	const q = `
		SELECT s.id, s.description, s.mode, s.created_at, COUNT(d.id)
		FROM sessions s
		LEFT JOIN session_documents d ON d.session_id = s.id
		GROUP BY s.id, s.description, s.mode, s.created_at
		ORDER BY s.created_at DESC, s.id DESC
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.SessionSummary, 0)
	for rows.Next() {
		var s model.SessionSummary
		if err := rows.Scan(&s.ID, &s.Description, &s.Mode, &s.CreatedAt, &s.DocumentCount); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

// AppendDocument inserts one document metadata row and returns the stored record.
func (r *SessionPostgres) AppendDocument(ctx context.Context, sessionID string, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO session_documents (id, session_id, filename, doc_type, storage_key, size, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, session_id, filename, doc_type, storage_key, size, uploaded_at
	`
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		sessionID,
		doc.Filename,
		doc.Type,
		doc.StorageKey,
		doc.Size,
		doc.UploadedAt,
	)
	var out model.Document
	if err := row.Scan(
		&out.ID,
		&out.SessionID,
		&out.Filename,
		&out.Type,
		&out.StorageKey,
		&out.Size,
		&out.UploadedAt,
	); err != nil {
		return nil, mapIDError(err)
	}
	return &out, nil
}

// RemoveDocumentsByFilename deletes every metadata row matching the filename
// and returns the removed rows so the caller can free the blobs.
func (r *SessionPostgres) RemoveDocumentsByFilename(ctx context.Context, sessionID, filename string) ([]model.Document, error) {
	const q = `
		DELETE FROM session_documents
		WHERE session_id = $1 AND filename = $2
		RETURNING id, session_id, filename, doc_type, storage_key, size, uploaded_at
	`
	rows, err := r.db.QueryContext(ctx, q, sessionID, filename)
	if err != nil {
		return nil, mapIDError(err)
	}
	defer rows.Close()

	removed := make([]model.Document, 0)
	for rows.Next() {
		var d model.Document
		if err := rows.Scan(
			&d.ID,
			&d.SessionID,
			&d.Filename,
			&d.Type,
			&d.StorageKey,
			&d.Size,
			&d.UploadedAt,
		); err != nil {
			return nil, err
		}
		removed = append(removed, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(removed) == 0 {
		return nil, sql.ErrNoRows
	}
	return removed, nil
}

// SetMode updates the mode column for a session.
func (r *SessionPostgres) SetMode(ctx context.Context, sessionID string, mode model.Mode) error {
	const q = `UPDATE sessions SET mode = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, sessionID, mode)
	if err != nil {
		return mapIDError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// AppendChatTurn inserts one chat turn row. The BIGSERIAL key preserves append order.
func (r *SessionPostgres) AppendChatTurn(ctx context.Context, sessionID string, turn *model.ChatTurn) error {
	const q = `
		INSERT INTO chat_turns (session_id, question, answer, mode, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, q, sessionID, turn.Question, turn.Answer, turn.Mode, turn.CreatedAt)
	return mapIDError(err)
}

// Delete removes a session row; document and chat rows cascade.
func (r *SessionPostgres) Delete(ctx context.Context, sessionID string) error {
	const q = `DELETE FROM sessions WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, sessionID)
	if err != nil {
		return mapIDError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
