package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/xueling-bot/internal/api"
	"github.com/aliskhannn/xueling-bot/internal/domain/entities"
	"github.com/aliskhannn/xueling-bot/internal/state"
)

// LibraryService manages shared resources and user suggestions.
type LibraryService struct {
	api         LibraryAPI
	resources   *state.List[entities.Resource]
	suggestions *state.List[entities.Suggestion]
	sessions    SessionReader
	validator   *Validator
	logger      *zap.Logger

	now   func() time.Time
	newID func() string
}

func NewLibraryService(
	api LibraryAPI,
	st *state.Container,
	sessions SessionReader,
	validator *Validator,
	logger *zap.Logger,
) *LibraryService {
	return &LibraryService{
		api:         api,
		resources:   st.Resources,
		suggestions: st.Suggestions,
		sessions:    sessions,
		validator:   validator,
		logger:      logger,
		now:         time.Now,
		newID:       newID,
	}
}

// Refresh replaces the local resource list with the backend one.
func (s *LibraryService) Refresh(ctx context.Context) error {
	resources, err := s.api.ListResources(ctx)
	if err != nil {
		s.logger.Warn("failed to refresh resources", zap.Error(err))
		return fmt.Errorf("refresh resources: %w", err)
	}
	s.resources.Replace(ctx, resources)
	return nil
}

func (s *LibraryService) Resources() []entities.Resource {
	return s.resources.Items()
}

// Modules returns the distinct modules of the current resources.
func (s *LibraryService) Modules() []string {
	return entities.Modules(s.resources.Items())
}

// ListByModule filters resources by module. The all-modules label and an
// empty module return every resource.
func (s *LibraryService) ListByModule(module string) []entities.Resource {
	all := s.resources.Items()
	if module == "" || module == entities.AllModules {
		return all
	}

	out := make([]entities.Resource, 0, len(all))
	for _, r := range all {
		if r.Module == module {
			out = append(out, r)
		}
	}
	return out
}

func (s *LibraryService) Find(id string) (entities.Resource, bool) {
	for _, r := range s.resources.Items() {
		if r.ID == id {
			return r, true
		}
	}
	return entities.Resource{}, false
}

// Upload sends a resource file as the admin. The local entry points at a
// placeholder until the next refresh brings the real path.
func (s *LibraryService) Upload(ctx context.Context, title, module string, file api.Upload) (entities.Resource, error) {
	if _, err := requireAdmin(s.sessions); err != nil {
		return entities.Resource{}, err
	}
	title, module = strings.TrimSpace(title), strings.TrimSpace(module)
	if err := s.validator.Check(ResourceForm{Title: title, Module: module, FileName: file.Name}); err != nil {
		return entities.Resource{}, err
	}

	if err := s.api.UploadResource(ctx, title, module, file); err != nil {
		s.logger.Warn("failed to upload resource", zap.String("title", title), zap.Error(err))
		return entities.Resource{}, fmt.Errorf("upload resource: %w", err)
	}

	res := entities.Resource{
		ID:          s.newID(),
		Title:       title,
		Module:      module,
		URL:         entities.PlaceholderURL,
		Date:        today(s.now()),
		Provisional: true,
	}
	s.resources.Append(ctx, res)
	return res, nil
}

// SubmitSuggestion records the suggestion locally first, then sends it. A
// failed send is returned but the local entry is kept.
func (s *LibraryService) SubmitSuggestion(ctx context.Context, content string) (entities.Suggestion, error) {
	session, err := requireSession(s.sessions)
	if err != nil {
		return entities.Suggestion{}, err
	}
	content = strings.TrimSpace(content)
	if err := s.validator.Check(SuggestionForm{Content: content}); err != nil {
		return entities.Suggestion{}, err
	}

	phone := entities.AdminLabel
	if session.Phone != nil {
		phone = *session.Phone
	}

	sug := entities.Suggestion{
		ID:          s.newID(),
		UserID:      session.ID,
		Phone:       phone,
		Content:     content,
		Date:        today(s.now()),
		Provisional: true,
	}
	s.suggestions.Append(ctx, sug)

	if err := s.api.SubmitSuggestion(ctx, session.ID, content); err != nil {
		s.logger.Warn("failed to send suggestion", zap.String("user_id", session.ID), zap.Error(err))
		return sug, fmt.Errorf("send suggestion: %w", err)
	}
	return sug, nil
}

// MySuggestions returns the suggestions of the current session.
func (s *LibraryService) MySuggestions() []entities.Suggestion {
	session := s.sessions.Current()
	if session == nil {
		return nil
	}

	var out []entities.Suggestion
	for _, sug := range s.suggestions.Items() {
		if sug.UserID == session.ID {
			out = append(out, sug)
		}
	}
	return out
}
