package model

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Mode selects where answers for a session come from: the session's
// uploaded documents only, or the model's general knowledge.
type Mode string

const (
	ModeLocal  Mode = "local"
	ModeGlobal Mode = "global"
)

// Toggle flips local to global and back.
func (m Mode) Toggle() Mode {
	if m == ModeLocal {
		return ModeGlobal
	}
	return ModeLocal
}

// ParseMode validates a mode string coming from a request body.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeLocal, ModeGlobal:
		return Mode(s), nil
	}
	return "", fmt.Errorf("invalid mode %q", s)
}

// DocType is the detected document kind. Only txt, pdf and docx have
// extractable text; any other value is stored as-is and yields empty text.
type DocType string

const (
	DocTypeTxt  DocType = "txt"
	DocTypePDF  DocType = "pdf"
	DocTypeDocx DocType = "docx"
)

// DetectDocType derives the document type from the filename extension,
// case-insensitively. Unsupported extensions are kept verbatim so the
// metadata still records what was uploaded.
func DetectDocType(filename string) DocType {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	return DocType(strings.ToLower(ext))
}

// Supported reports whether text extraction is defined for the type.
func (t DocType) Supported() bool {
	switch t {
	case DocTypeTxt, DocTypePDF, DocTypeDocx:
		return true
	}
	return false
}

// Document is the metadata of one file attached to a session. The bytes
// themselves live in object storage under StorageKey.
type Document struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	Filename   string    `json:"filename"`
	Type       DocType   `json:"type"`
	StorageKey string    `json:"storage_key"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// ChatTurn is one question/answer exchange. Turns are append-only and are
// removed only when the whole session is deleted.
type ChatTurn struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Mode      Mode      `json:"mode"`
	CreatedAt time.Time `json:"timestamp"`
}

// Session groups documents, mode and chat history under one identifier.
type Session struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Mode        Mode       `json:"mode"`
	CreatedAt   time.Time  `json:"created_at"`
	Documents   []Document `json:"documents"`
	ChatHistory []ChatTurn `json:"chat_history"`
}

// SessionSummary is the listing view of a session, without chat history.
type SessionSummary struct {
	ID            string    `json:"id"`
	Description   string    `json:"description"`
	Mode          Mode      `json:"mode"`
	CreatedAt     time.Time `json:"created_at"`
	DocumentCount int       `json:"document_count"`
}
