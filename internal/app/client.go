// Package app composes the per-chat client: state, session, router and features.
package app

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/aliskhannn/xueling-bot/internal/config"
	"github.com/aliskhannn/xueling-bot/internal/domain/entities"
	"github.com/aliskhannn/xueling-bot/internal/service"
	"github.com/aliskhannn/xueling-bot/internal/snapshot"
	"github.com/aliskhannn/xueling-bot/internal/state"
)

// API is the backend surface used by a client.
type API interface {
	service.AuthAPI
	service.ForumAPI
	service.LibraryAPI
	service.QuizAPI
	service.FeedbackAPI
	FileURL(p string) string
}

// Deps are shared by every client.
type Deps struct {
	API        API
	Store      snapshot.Store
	Dispatcher service.Dispatcher
	Validator  *service.Validator
	Config     *config.Config
	Logger     *zap.Logger
}

// Client is one user-facing client with its own snapshot namespace.
type Client struct {
	Namespace string
	State     *state.Container
	Sessions  *service.SessionManager
	Router    *service.Router
	Forum     *service.ForumService
	Library   *service.LibraryService
	Quiz      *service.QuizService
	Feedback  *service.FeedbackService

	api    API
	logger *zap.Logger
}

// NewClient restores the snapshot of namespace and wires the features.
func NewClient(ctx context.Context, namespace string, deps Deps) *Client {
	logger := deps.Logger.With(zap.String("client", namespace))

	st := state.New(snapshot.NewBucket(deps.Store, namespace, logger), logger)
	st.Restore(ctx)

	sessions := service.NewSessionManager(deps.API, st.Session, deps.Validator, logger)
	c := &Client{
		Namespace: namespace,
		State:     st,
		Sessions:  sessions,
		Router:    service.NewRouter(sessions),
		Forum:     service.NewForumService(deps.API, st, sessions, deps.Validator, deps.Config.Forum.PersistQuote, logger),
		Library:   service.NewLibraryService(deps.API, st, sessions, deps.Validator, logger),
		Quiz: service.NewQuizService(
			deps.API, st, sessions, deps.Dispatcher, deps.Validator,
			deps.Config.Quiz.BatchSize, deps.Config.Quiz.Modules, logger,
		),
		Feedback: service.NewFeedbackService(deps.API, st, sessions, deps.Validator, logger),
		api:      deps.API,
		logger:   logger,
	}

	sessions.Subscribe(func(*entities.Session) {
		c.Quiz.Reset()
		c.Feedback.CancelReply()
	})
	return c
}

// Load fetches the data shown right after start: quote, posts and resources.
// Failures keep the cached slices.
func (c *Client) Load(ctx context.Context) error {
	return errors.Join(
		c.Forum.RefreshQuote(ctx),
		c.Forum.Refresh(ctx),
		c.Library.Refresh(ctx),
	)
}

// Open switches to view and refreshes its data. A rejected switch returns
// the view that stays active.
func (c *Client) Open(ctx context.Context, view entities.View) (entities.View, error) {
	if !c.Router.SelectTab(view) {
		if c.Sessions.Current() == nil {
			return c.Router.ActiveView(), service.ErrNotAuthenticated
		}
		return c.Router.ActiveView(), service.ErrForbidden
	}

	var err error
	switch view {
	case entities.ViewForum:
		err = errors.Join(c.Forum.RefreshQuote(ctx), c.Forum.Refresh(ctx))
	case entities.ViewResources:
		err = c.Library.Refresh(ctx)
	case entities.ViewQuiz:
		c.Quiz.Back()
	case entities.ViewAdmin:
		err = c.Feedback.Refresh(ctx)
	}
	if err != nil {
		c.logger.Debug("view refresh failed", zap.String("view", string(view)), zap.Error(err))
	}
	return view, err
}

// FileURL resolves a stored resource path to a downloadable URL.
func (c *Client) FileURL(p string) string {
	return c.api.FileURL(p)
}
