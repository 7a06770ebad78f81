package service

import (
	"sync"

	"github.com/aliskhannn/xueling-bot/internal/domain/entities"
)

// Router tracks the active tab. Without a session the only view is login.
type Router struct {
	sessions SessionReader

	mu     sync.RWMutex
	active entities.View
}

// NewRouter starts on the forum tab and returns to it after every login or logout.
func NewRouter(sessions *SessionManager) *Router {
	r := &Router{sessions: sessions, active: entities.ViewForum}
	sessions.Subscribe(func(*entities.Session) {
		r.mu.Lock()
		r.active = entities.ViewForum
		r.mu.Unlock()
	})
	return r
}

// SelectTab switches to v. Unknown views, a missing session and the admin
// tab for non-admins are rejected and leave the active view unchanged.
func (r *Router) SelectTab(v entities.View) bool {
	if _, ok := entities.ParseView(string(v)); !ok {
		return false
	}

	s := r.sessions.Current()
	if s == nil {
		return false
	}
	if v == entities.ViewAdmin && !s.IsAdmin() {
		return false
	}

	r.mu.Lock()
	r.active = v
	r.mu.Unlock()
	return true
}

// ActiveView returns the view to render.
func (r *Router) ActiveView() entities.View {
	s := r.sessions.Current()
	if s == nil {
		return entities.ViewLogin
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.active == entities.ViewAdmin && !s.IsAdmin() {
		return entities.ViewForum
	}
	return r.active
}

// Tabs lists the tabs visible to the current session.
func (r *Router) Tabs() []entities.View {
	s := r.sessions.Current()
	if s == nil {
		return nil
	}

	tabs := []entities.View{entities.ViewForum, entities.ViewResources, entities.ViewQuiz}
	if s.IsAdmin() {
		tabs = append(tabs, entities.ViewAdmin)
	}
	return tabs
}
