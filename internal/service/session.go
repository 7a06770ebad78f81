package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/aliskhannn/xueling-bot/internal/domain/entities"
	"github.com/aliskhannn/xueling-bot/internal/state"
)

// SessionManager owns the authenticated identity of one client.
type SessionManager struct {
	api       AuthAPI
	session   *state.Value[*entities.Session]
	validator *Validator
	logger    *zap.Logger

	mu        sync.Mutex
	listeners []func(*entities.Session)
}

func NewSessionManager(
	api AuthAPI,
	session *state.Value[*entities.Session],
	validator *Validator,
	logger *zap.Logger,
) *SessionManager {
	return &SessionManager{
		api:       api,
		session:   session,
		validator: validator,
		logger:    logger,
	}
}

// Current returns the active session or nil.
func (m *SessionManager) Current() *entities.Session {
	return m.session.Get()
}

// Subscribe registers fn to be called after every session change.
func (m *SessionManager) Subscribe(fn func(*entities.Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Login authenticates against the backend. The role comes from the response.
func (m *SessionManager) Login(ctx context.Context, username, password string) (*entities.Session, error) {
	if err := m.validator.Check(LoginForm{Username: username, Password: password}); err != nil {
		return nil, err
	}

	s, err := m.api.Login(ctx, username, password)
	if err != nil {
		m.logger.Warn("login failed", zap.String("username", username), zap.Error(err))
		return nil, fmt.Errorf("login: %w", err)
	}

	m.set(ctx, s)
	m.logger.Info("logged in", zap.String("user_id", s.ID), zap.String("role", string(s.Role)))
	return s, nil
}

// Register creates an account and signs it in. The phone is checked locally
// before any request is sent.
func (m *SessionManager) Register(ctx context.Context, username, phone, password string) (*entities.Session, error) {
	form := RegisterForm{Username: username, Phone: phone, Password: password}
	if err := m.validator.Check(form); err != nil {
		return nil, err
	}

	s, err := m.api.Register(ctx, username, phone, password)
	if err != nil {
		m.logger.Warn("register failed", zap.String("username", username), zap.Error(err))
		return nil, fmt.Errorf("register: %w", err)
	}

	m.set(ctx, s)
	m.logger.Info("registered", zap.String("user_id", s.ID))
	return s, nil
}

// Logout clears the session. Cached lists are kept.
func (m *SessionManager) Logout(ctx context.Context) {
	m.set(ctx, nil)
}

func (m *SessionManager) set(ctx context.Context, s *entities.Session) {
	m.session.Set(ctx, s)

	m.mu.Lock()
	listeners := make([]func(*entities.Session), len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(s)
	}
}
