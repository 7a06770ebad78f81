package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/aliskhannn/xueling-bot/internal/domain/entities"
	"github.com/aliskhannn/xueling-bot/internal/state"
)

// Draft is a reply being written for a suggestion.
type Draft struct {
	SuggestionID string
	Text         string
}

// FeedbackService lets admins answer suggestions.
type FeedbackService struct {
	api         FeedbackAPI
	suggestions *state.List[entities.Suggestion]
	sessions    SessionReader
	validator   *Validator
	logger      *zap.Logger

	mu    sync.Mutex
	draft *Draft
}

func NewFeedbackService(
	api FeedbackAPI,
	st *state.Container,
	sessions SessionReader,
	validator *Validator,
	logger *zap.Logger,
) *FeedbackService {
	return &FeedbackService{
		api:         api,
		suggestions: st.Suggestions,
		sessions:    sessions,
		validator:   validator,
		logger:      logger,
	}
}

// Refresh replaces the local suggestions with every suggestion on the backend.
func (s *FeedbackService) Refresh(ctx context.Context) error {
	if _, err := requireAdmin(s.sessions); err != nil {
		return err
	}

	list, err := s.api.ListSuggestions(ctx)
	if err != nil {
		s.logger.Warn("failed to refresh suggestions", zap.Error(err))
		return fmt.Errorf("refresh suggestions: %w", err)
	}
	s.suggestions.Replace(ctx, list)
	return nil
}

func (s *FeedbackService) Suggestions() []entities.Suggestion {
	return s.suggestions.Items()
}

func (s *FeedbackService) find(id string) (entities.Suggestion, bool) {
	for _, sug := range s.suggestions.Items() {
		if sug.ID == id {
			return sug, true
		}
	}
	return entities.Suggestion{}, false
}

// BeginReply opens a draft for the suggestion. Text already typed for the
// same suggestion is kept.
func (s *FeedbackService) BeginReply(id string) (entities.Suggestion, error) {
	if _, err := requireAdmin(s.sessions); err != nil {
		return entities.Suggestion{}, err
	}
	sug, ok := s.find(id)
	if !ok {
		return entities.Suggestion{}, ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil || s.draft.SuggestionID != id {
		s.draft = &Draft{SuggestionID: id}
	}
	return sug, nil
}

// Draft returns the open draft.
func (s *FeedbackService) Draft() (Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return Draft{}, false
	}
	return *s.draft, true
}

// CancelReply drops the open draft.
func (s *FeedbackService) CancelReply() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = nil
}

// Reply sends the reply text. The local suggestion gets the feedback only
// after the backend accepted it; on failure the draft is kept for Retry.
func (s *FeedbackService) Reply(ctx context.Context, id, text string) error {
	if _, err := requireAdmin(s.sessions); err != nil {
		return err
	}
	if _, ok := s.find(id); !ok {
		return ErrNotFound
	}
	text = strings.TrimSpace(text)
	if err := s.validator.Check(ReplyForm{Text: text}); err != nil {
		return err
	}

	s.mu.Lock()
	s.draft = &Draft{SuggestionID: id, Text: text}
	s.mu.Unlock()

	if err := s.api.ReplySuggestion(ctx, id, text); err != nil {
		s.logger.Warn("failed to send reply", zap.String("suggestion_id", id), zap.Error(err))
		return fmt.Errorf("reply suggestion: %w", err)
	}

	s.suggestions.Update(ctx, func(items []entities.Suggestion) []entities.Suggestion {
		for i := range items {
			if items[i].ID == id {
				feedback := text
				items[i].Feedback = &feedback
			}
		}
		return items
	})

	s.mu.Lock()
	if s.draft != nil && s.draft.SuggestionID == id {
		s.draft = nil
	}
	s.mu.Unlock()
	return nil
}

// Retry resends the open draft.
func (s *FeedbackService) Retry(ctx context.Context) error {
	d, ok := s.Draft()
	if !ok || d.Text == "" {
		return ErrNoDraft
	}
	return s.Reply(ctx, d.SuggestionID, d.Text)
}
