package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"docchat/internal/llm"
	"docchat/internal/model"
	"docchat/internal/prompt"
	"docchat/internal/repository"
	"docchat/internal/search"
	"docchat/internal/storage"
)

// AskResult carries the answer together with the mode it was produced in and
// the per-document extraction report for the assembled context.
type AskResult struct {
	Answer  string           `json:"answer"`
	Mode    model.Mode       `json:"mode"`
	Reports []DocumentReport `json:"documents,omitempty"`
}

// DocumentSearchResult holds highlighted matching lines from document text.
type DocumentSearchResult struct {
	Matches []string         `json:"matches"`
	Reports []DocumentReport `json:"documents,omitempty"`
}

// ChatMatch is one chat turn matching a search, with both fields highlighted.
type ChatMatch struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ChatService defines the question answering and search use cases.
type ChatService interface {
	// Ask assembles document context, builds the prompt for the session's
	// mode (or the per-request override), calls the answer service, and
	// appends the turn to the session's chat history.
	Ask(ctx context.Context, sessionID, question, modeOverride string) (*AskResult, error)

	// SearchDocuments scans extracted document text line by line for a
	// literal, case-insensitive substring and highlights matches.
	SearchDocuments(ctx context.Context, sessionID, query string) (*DocumentSearchResult, error)

	// SearchChat scans the session's chat history; a turn matches if the
	// query appears in its question or answer.
	SearchChat(ctx context.Context, sessionID, query string) ([]ChatMatch, error)
}

type chatService struct {
	repo      repository.SessionRepository
	store     storage.Storage
	completer llm.Completer
}

// NewChatService constructs a new ChatService.
func NewChatService(repo repository.SessionRepository, store storage.Storage, completer llm.Completer) ChatService {
	return &chatService{repo: repo, store: store, completer: completer}
}

func (s *chatService) Ask(ctx context.Context, sessionID, question, modeOverride string) (*AskResult, error) {
	if question == "" {
		return nil, ErrQuestionRequired
	}
	sess, err := s.findSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	mode := sess.Mode
	if modeOverride != "" {
		mode, err = model.ParseMode(modeOverride)
		if err != nil {
			return nil, ErrInvalidMode
		}
	}

	// Context is re-extracted from stored bytes on every ask; nothing is
	// cached, so the answer always reflects the current document set.
	docContext, reports := assembleContext(ctx, s.store, sess.Documents)

	system, user := prompt.Build(mode, docContext, question)
	answer, err := s.completer.Complete(ctx, system, user)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnswerService, err)
	}

	turn := &model.ChatTurn{
		Question:  question,
		Answer:    answer,
		Mode:      mode,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.AppendChatTurn(ctx, sessionID, turn); err != nil {
		return nil, fmt.Errorf("append chat turn: %w", err)
	}

	return &AskResult{Answer: answer, Mode: mode, Reports: reports}, nil
}

func (s *chatService) SearchDocuments(ctx context.Context, sessionID, query string) (*DocumentSearchResult, error) {
	sess, err := s.findSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	docContext, reports := assembleContext(ctx, s.store, sess.Documents)
	return &DocumentSearchResult{
		Matches: search.MatchLines(docContext, query),
		Reports: reports,
	}, nil
}

func (s *chatService) SearchChat(ctx context.Context, sessionID, query string) ([]ChatMatch, error) {
	sess, err := s.findSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	matches := []ChatMatch{}
	for _, turn := range sess.ChatHistory {
		if search.MatchesEither(query, turn.Question, turn.Answer) {
			matches = append(matches, ChatMatch{
				Question: search.Highlight(turn.Question, query),
				Answer:   search.Highlight(turn.Answer, query),
			})
		}
	}
	return matches, nil
}

func (s *chatService) findSession(ctx context.Context, sessionID string) (*model.Session, error) {
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
