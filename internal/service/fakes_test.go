package service

import (
	"context"
	"io"
	"strconv"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/xueling-bot/internal/api"
	"github.com/aliskhannn/xueling-bot/internal/dispatch"
	"github.com/aliskhannn/xueling-bot/internal/domain/entities"
	"github.com/aliskhannn/xueling-bot/internal/snapshot"
	"github.com/aliskhannn/xueling-bot/internal/state"
)

// fakeAPI records calls and returns canned responses.
type fakeAPI struct {
	mu    sync.Mutex
	calls []string
	err   error // returned by every call when set

	session     *entities.Session
	quote       string
	posts       []entities.Post
	resources   []entities.Resource
	suggestions []entities.Suggestion
	words       []entities.Word
	mistakes    []entities.Mistake
	uploaded    []byte
}

func (f *fakeAPI) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) Login(_ context.Context, username, _ string) (*entities.Session, error) {
	if err := f.record("login"); err != nil {
		return nil, err
	}
	s := *f.session
	s.Username = username
	return &s, nil
}

func (f *fakeAPI) Register(_ context.Context, username, phone, _ string) (*entities.Session, error) {
	if err := f.record("register"); err != nil {
		return nil, err
	}
	return &entities.Session{ID: "u1", Username: username, Phone: &phone, Role: entities.RoleUser}, nil
}

func (f *fakeAPI) DailyQuote(context.Context) (string, error) {
	return f.quote, f.record("daily quote")
}

func (f *fakeAPI) UpdateQuote(context.Context, string) error {
	return f.record("update quote")
}

func (f *fakeAPI) ListPosts(context.Context) ([]entities.Post, error) {
	return f.posts, f.record("list posts")
}

func (f *fakeAPI) CreatePost(context.Context, string, string, string, *string) error {
	return f.record("create post")
}

func (f *fakeAPI) ListResources(context.Context) ([]entities.Resource, error) {
	return f.resources, f.record("list resources")
}

func (f *fakeAPI) UploadResource(context.Context, string, string, api.Upload) error {
	return f.record("upload resource")
}

func (f *fakeAPI) SubmitSuggestion(context.Context, string, string) error {
	return f.record("submit suggestion")
}

func (f *fakeAPI) ListSuggestions(context.Context) ([]entities.Suggestion, error) {
	return f.suggestions, f.record("list suggestions")
}

func (f *fakeAPI) ReplySuggestion(context.Context, string, string) error {
	return f.record("reply suggestion")
}

func (f *fakeAPI) QuizWords(context.Context, string, int) ([]entities.Word, error) {
	return append([]entities.Word(nil), f.words...), f.record("quiz words")
}

func (f *fakeAPI) UploadWords(_ context.Context, _ string, file api.Upload) (string, error) {
	if err := f.record("upload words"); err != nil {
		return "", err
	}
	data, _ := io.ReadAll(file.Body)
	f.mu.Lock()
	f.uploaded = data
	f.mu.Unlock()
	return "导入成功", nil
}

func (f *fakeAPI) AddMistake(context.Context, string, string) error {
	return f.record("add mistake")
}

func (f *fakeAPI) ListMistakes(context.Context, string) ([]entities.Mistake, error) {
	return f.mistakes, f.record("list mistakes")
}

func (f *fakeAPI) DeleteMistake(context.Context, string) error {
	return f.record("delete mistake")
}

// syncDispatcher runs jobs inline.
type syncDispatcher struct {
	errs []error
}

func (d *syncDispatcher) Dispatch(_ string, job dispatch.Job) {
	if err := job(context.Background()); err != nil {
		d.errs = append(d.errs, err)
	}
}

type staticSession struct {
	s *entities.Session
}

func (s staticSession) Current() *entities.Session {
	return s.s
}

var (
	adminSession = &entities.Session{ID: "0", Username: "xueling", Role: entities.RoleAdmin}
	userSession  = &entities.Session{ID: "5", Username: "tom", Role: entities.RoleUser}
)

func newState(t *testing.T) (*state.Container, snapshot.Store) {
	t.Helper()
	store := snapshot.NewMemoryStore()
	st := state.New(snapshot.NewBucket(store, "chat-1", zap.NewNop()), zap.NewNop())
	st.Restore(context.Background())
	return st, store
}

func fixedClock() time.Time {
	return time.Date(2024, 5, 20, 23, 0, 0, 0, time.UTC)
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return "local-" + strconv.Itoa(n)
	}
}

// switchableSession lets a test change the signed-in account.
type switchableSession struct {
	s *entities.Session
}

func (s *switchableSession) Current() *entities.Session {
	return s.s
}
