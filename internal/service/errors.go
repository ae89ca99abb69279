package service

import "errors"

var (
	ErrSessionIDRequired = errors.New("session id is required")
	ErrSessionNotFound   = errors.New("session not found")
	ErrDocumentNotFound  = errors.New("document not found in session")
	ErrFilenameRequired  = errors.New("filename is required")
	ErrQuestionRequired  = errors.New("question is required")
	ErrReaderNil         = errors.New("reader is nil")
	ErrInvalidMode       = errors.New("mode must be 'local' or 'global'")

	// ErrAnswerService wraps completion-call failures so handlers can map
	// them to an upstream-failure status instead of a generic 500.
	ErrAnswerService = errors.New("answer service failed")
)
