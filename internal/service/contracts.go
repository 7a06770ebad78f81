package service

import (
	"context"

	"github.com/aliskhannn/xueling-bot/internal/api"
	"github.com/aliskhannn/xueling-bot/internal/dispatch"
	"github.com/aliskhannn/xueling-bot/internal/domain/entities"
)

type AuthAPI interface {
	Login(ctx context.Context, username, password string) (*entities.Session, error)
	Register(ctx context.Context, username, phone, password string) (*entities.Session, error)
}

type ForumAPI interface {
	DailyQuote(ctx context.Context) (string, error)
	UpdateQuote(ctx context.Context, content string) error
	ListPosts(ctx context.Context) ([]entities.Post, error)
	CreatePost(ctx context.Context, title, content, author string, link *string) error
}

type LibraryAPI interface {
	ListResources(ctx context.Context) ([]entities.Resource, error)
	UploadResource(ctx context.Context, title, module string, file api.Upload) error
	SubmitSuggestion(ctx context.Context, userID, content string) error
}

type QuizAPI interface {
	QuizWords(ctx context.Context, module string, limit int) ([]entities.Word, error)
	UploadWords(ctx context.Context, module string, file api.Upload) (string, error)
	AddMistake(ctx context.Context, userID, wordID string) error
	ListMistakes(ctx context.Context, userID string) ([]entities.Mistake, error)
	DeleteMistake(ctx context.Context, id string) error
}

type FeedbackAPI interface {
	ListSuggestions(ctx context.Context) ([]entities.Suggestion, error)
	ReplySuggestion(ctx context.Context, id, feedback string) error
}

// SessionReader gives read access to the current session.
type SessionReader interface {
	Current() *entities.Session
}

// Dispatcher runs fire-and-forget jobs; failures are logged by the dispatcher.
type Dispatcher interface {
	Dispatch(name string, job dispatch.Job)
}
