package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/xueling-bot/internal/domain/entities"
	"github.com/aliskhannn/xueling-bot/internal/state"
)

// ForumService manages the post list and the daily quote.
type ForumService struct {
	api          ForumAPI
	posts        *state.List[entities.Post]
	quote        *state.Value[string]
	sessions     SessionReader
	validator    *Validator
	logger       *zap.Logger
	persistQuote bool

	now   func() time.Time
	newID func() string
}

func NewForumService(
	api ForumAPI,
	st *state.Container,
	sessions SessionReader,
	validator *Validator,
	persistQuote bool,
	logger *zap.Logger,
) *ForumService {
	return &ForumService{
		api:          api,
		posts:        st.Posts,
		quote:        st.Quote,
		sessions:     sessions,
		validator:    validator,
		logger:       logger,
		persistQuote: persistQuote,
		now:          time.Now,
		newID:        newID,
	}
}

// Refresh replaces the local post list with the backend one. On failure the
// cached list stays as it is.
func (s *ForumService) Refresh(ctx context.Context) error {
	posts, err := s.api.ListPosts(ctx)
	if err != nil {
		s.logger.Warn("failed to refresh posts", zap.Error(err))
		return fmt.Errorf("refresh posts: %w", err)
	}
	s.posts.Replace(ctx, posts)
	return nil
}

// RefreshQuote fetches the daily quote. An empty response keeps the current one.
func (s *ForumService) RefreshQuote(ctx context.Context) error {
	content, err := s.api.DailyQuote(ctx)
	if err != nil {
		s.logger.Warn("failed to refresh quote", zap.Error(err))
		return fmt.Errorf("refresh quote: %w", err)
	}
	if content = strings.TrimSpace(content); content != "" {
		s.quote.Set(ctx, content)
	}
	return nil
}

// Posts returns the posts newest first.
func (s *ForumService) Posts() []entities.Post {
	return s.posts.Items()
}

func (s *ForumService) Quote() string {
	return s.quote.Get()
}

// CreatePost publishes a post as the admin. The post is added to the local
// list only after the backend accepted it, and stays provisional until the
// next refresh.
func (s *ForumService) CreatePost(ctx context.Context, title, content, link string) (entities.Post, error) {
	if _, err := requireAdmin(s.sessions); err != nil {
		return entities.Post{}, err
	}
	title, content = strings.TrimSpace(title), strings.TrimSpace(content)
	if err := s.validator.Check(PostForm{Title: title, Content: content, Link: link}); err != nil {
		return entities.Post{}, err
	}

	var linkPtr *string
	if link = strings.TrimSpace(link); link != "" {
		linkPtr = &link
	}

	if err := s.api.CreatePost(ctx, title, content, entities.AdminLabel, linkPtr); err != nil {
		s.logger.Warn("failed to create post", zap.String("title", title), zap.Error(err))
		return entities.Post{}, fmt.Errorf("create post: %w", err)
	}

	post := entities.Post{
		ID:          s.newID(),
		Title:       title,
		Content:     content,
		Author:      entities.AdminLabel,
		Link:        linkPtr,
		Date:        today(s.now()),
		Provisional: true,
	}
	s.posts.Prepend(ctx, post)
	return post, nil
}

// SaveQuote replaces the quote locally. With quote persistence enabled it is
// also sent to the backend; a failed upload keeps the local edit.
func (s *ForumService) SaveQuote(ctx context.Context, text string) error {
	if _, err := requireAdmin(s.sessions); err != nil {
		return err
	}
	text = strings.TrimSpace(text)
	if err := s.validator.Check(QuoteForm{Text: text}); err != nil {
		return err
	}

	s.quote.Set(ctx, text)

	if !s.persistQuote {
		return nil
	}
	if err := s.api.UpdateQuote(ctx, text); err != nil {
		s.logger.Warn("failed to persist quote", zap.Error(err))
		return fmt.Errorf("persist quote: %w", err)
	}
	return nil
}
