package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/xueling-bot/internal/api"
	"github.com/aliskhannn/xueling-bot/internal/domain/entities"
	"github.com/aliskhannn/xueling-bot/internal/state"
)

// wordColumns is the column count of an unheaded word sheet:
// english, IPA, part of speech with the chinese gloss.
const wordColumns = 3

var wordFileExts = map[string]bool{".csv": true, ".xlsx": true, ".xls": true}

// AnswerResult is the outcome of one checked answer.
type AnswerResult struct {
	Correct      bool
	Expected     string
	MistakeAdded bool
}

// QuizService drives the dictation quiz of one client.
type QuizService struct {
	api        QuizAPI
	words      *state.List[entities.Word]
	mistakes   *state.List[entities.Mistake]
	sessions   SessionReader
	dispatcher Dispatcher
	validator  *Validator
	logger     *zap.Logger
	batchSize  int
	modules    []string

	now     func() time.Time
	newID   func() string
	shuffle func([]entities.Word)

	mu      sync.Mutex
	view    entities.QuizView
	round   *entities.QuizRound
	options entities.DisplayOptions
}

func NewQuizService(
	api QuizAPI,
	st *state.Container,
	sessions SessionReader,
	dispatcher Dispatcher,
	validator *Validator,
	batchSize int,
	modules []string,
	logger *zap.Logger,
) *QuizService {
	return &QuizService{
		api:        api,
		words:      st.Words,
		mistakes:   st.Mistakes,
		sessions:   sessions,
		dispatcher: dispatcher,
		validator:  validator,
		logger:     logger,
		batchSize:  batchSize,
		modules:    modules,
		now:        time.Now,
		newID:      newID,
		shuffle:    shuffleWords,
		view:       entities.QuizSelection,
		options:    entities.DefaultDisplayOptions(),
	}
}

func shuffleWords(words []entities.Word) {
	rand.Shuffle(len(words), func(i, j int) {
		words[i], words[j] = words[j], words[i]
	})
}

// Modules returns the module catalog of the selection screen. Without a
// configured catalog the modules of the local words are used.
func (s *QuizService) Modules() []string {
	if len(s.modules) > 0 {
		return append([]string(nil), s.modules...)
	}

	seen := make(map[string]bool)
	var out []string
	for _, w := range s.words.Items() {
		if w.Module != "" && !seen[w.Module] {
			seen[w.Module] = true
			out = append(out, w.Module)
		}
	}
	return out
}

func (s *QuizService) View() entities.QuizView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

func (s *QuizService) Options() entities.DisplayOptions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.options
}

// Round returns a copy of the running round.
func (s *QuizService) Round() (entities.QuizRound, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.view != entities.QuizActive || s.round == nil {
		return entities.QuizRound{}, false
	}
	r := *s.round
	r.Words = append([]entities.Word(nil), s.round.Words...)
	return r, true
}

// Current returns the word being asked.
func (s *QuizService) Current() (entities.Word, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.view != entities.QuizActive || s.round == nil {
		return entities.Word{}, false
	}
	return s.round.Current(), true
}

// StartQuiz fetches a batch for module in a random order and enters the
// quiz. An empty batch keeps the selection screen.
func (s *QuizService) StartQuiz(ctx context.Context, module string) error {
	if _, err := requireSession(s.sessions); err != nil {
		return err
	}

	words, err := s.api.QuizWords(ctx, module, s.batchSize)
	if err != nil {
		s.logger.Warn("failed to fetch quiz words", zap.String("module", module), zap.Error(err))
		return fmt.Errorf("fetch quiz words: %w", err)
	}

	s.mergeWords(ctx, words)

	s.mu.Lock()
	defer s.mu.Unlock()

	round, err := entities.NewQuizRound(module, words)
	if err != nil {
		s.view = entities.QuizSelection
		s.round = nil
		return ErrNoWords
	}
	s.shuffle(round.Words)

	s.round = round
	s.view = entities.QuizActive
	return nil
}

// mergeWords adds fetched words to the local catalog, replacing entries
// with the same id.
func (s *QuizService) mergeWords(ctx context.Context, fetched []entities.Word) {
	if len(fetched) == 0 {
		return
	}
	s.words.Update(ctx, func(items []entities.Word) []entities.Word {
		index := make(map[string]int, len(items))
		for i, w := range items {
			index[w.ID] = i
		}
		for _, w := range fetched {
			if i, ok := index[w.ID]; ok {
				items[i] = w
				continue
			}
			index[w.ID] = len(items)
			items = append(items, w)
		}
		return items
	})
}

// CheckAnswer scores input against the current word. A wrong answer adds
// the word to the mistake book unless it is already there.
func (s *QuizService) CheckAnswer(ctx context.Context, input string) (AnswerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.view != entities.QuizActive || s.round == nil {
		return AnswerResult{}, ErrNotInQuiz
	}

	word := s.round.Current()
	correct, err := s.round.Answer(input)
	if err != nil {
		return AnswerResult{}, err
	}

	res := AnswerResult{Correct: correct, Expected: word.English}
	if !correct {
		res.MistakeAdded = s.recordMistake(ctx, word)
	}
	return res, nil
}

// recordMistake adds word to the book of the current user once.
func (s *QuizService) recordMistake(ctx context.Context, word entities.Word) bool {
	session := s.sessions.Current()
	if session == nil {
		return false
	}

	added := false
	m := entities.Mistake{
		ID:      s.newID(),
		UserID:  session.ID,
		WordID:  word.ID,
		English: word.English,
		Chinese: word.Chinese,
		Date:    today(s.now()),
	}

	s.mistakes.Update(ctx, func(items []entities.Mistake) []entities.Mistake {
		for _, it := range items {
			if it.UserID == session.ID && it.WordID == word.ID {
				return items
			}
		}
		added = true
		return append([]entities.Mistake{m}, items...)
	})
	if !added {
		return false
	}

	userID, wordID := session.ID, word.ID
	s.dispatcher.Dispatch("add mistake", func(ctx context.Context) error {
		return s.api.AddMistake(ctx, userID, wordID)
	})
	return true
}

// NextWord advances the round. After the last word the quiz returns to the
// selection screen and done is true.
func (s *QuizService) NextWord() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.view != entities.QuizActive || s.round == nil {
		return false, ErrNotInQuiz
	}

	done, err := s.round.Advance()
	if err != nil {
		return false, err
	}
	if done {
		s.view = entities.QuizSelection
		s.round = nil
	}
	return done, nil
}

// Toggle flips a display option and returns the new set.
func (s *QuizService) Toggle(opt entities.DisplayOption) entities.DisplayOptions {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options.Toggle(opt)
	return s.options
}

// Back abandons the current screen and returns to the selection.
func (s *QuizService) Back() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = entities.QuizSelection
	s.round = nil
}

// Reset restores the initial quiz state, used on logout.
func (s *QuizService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = entities.QuizSelection
	s.round = nil
	s.options = entities.DefaultDisplayOptions()
}

// OpenMistakes shows the mistake book and refreshes it from the backend.
// On failure the cached book is still shown.
func (s *QuizService) OpenMistakes(ctx context.Context) error {
	session, err := requireSession(s.sessions)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.view = entities.QuizMistakes
	s.round = nil
	s.mu.Unlock()

	mistakes, err := s.api.ListMistakes(ctx, session.ID)
	if err != nil {
		s.logger.Warn("failed to refresh mistakes", zap.String("user_id", session.ID), zap.Error(err))
		return fmt.Errorf("refresh mistakes: %w", err)
	}

	for i := range mistakes {
		mistakes[i].UserID = session.ID
	}
	sort.SliceStable(mistakes, func(i, j int) bool {
		return mistakes[i].Date > mistakes[j].Date
	})
	s.mistakes.Update(ctx, func(items []entities.Mistake) []entities.Mistake {
		out := mistakes
		for _, m := range items {
			if m.UserID != session.ID {
				out = append(out, m)
			}
		}
		return out
	})
	return nil
}

// Mistakes returns the mistake book of the current user, newest first.
func (s *QuizService) Mistakes() []entities.Mistake {
	session := s.sessions.Current()
	if session == nil {
		return nil
	}

	var out []entities.Mistake
	for _, m := range s.mistakes.Items() {
		if m.UserID == session.ID {
			out = append(out, m)
		}
	}
	return out
}

// RemoveMistake deletes an entry on the backend, then locally. On failure the
// local book is left untouched.
func (s *QuizService) RemoveMistake(ctx context.Context, id string) error {
	if _, err := requireSession(s.sessions); err != nil {
		return err
	}

	if err := s.api.DeleteMistake(ctx, id); err != nil {
		s.logger.Warn("failed to delete mistake", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("delete mistake: %w", err)
	}

	s.mistakes.Update(ctx, func(items []entities.Mistake) []entities.Mistake {
		out := items[:0]
		for _, m := range items {
			if m.ID != id {
				out = append(out, m)
			}
		}
		return out
	})
	return nil
}

// OpenAdmin enters the word administration screen.
func (s *QuizService) OpenAdmin() error {
	if _, err := requireAdmin(s.sessions); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = entities.QuizAdmin
	s.round = nil
	return nil
}

// Words returns the local word catalog.
func (s *QuizService) Words() []entities.Word {
	return s.words.Items()
}

// UploadWords sends a word sheet for module. CSV files are checked for the
// column layout before upload; spreadsheets are passed through.
func (s *QuizService) UploadWords(ctx context.Context, module string, file api.Upload) (string, error) {
	if _, err := requireAdmin(s.sessions); err != nil {
		return "", err
	}
	module = strings.TrimSpace(module)
	if err := s.validator.Check(WordUploadForm{Module: module, FileName: file.Name}); err != nil {
		return "", err
	}

	ext := strings.ToLower(path.Ext(file.Name))
	if !wordFileExts[ext] {
		return "", &ValidationError{Field: "FileName", Message: "仅支持 .csv、.xlsx、.xls 文件"}
	}

	if ext == ".csv" {
		data, err := io.ReadAll(file.Body)
		if err != nil {
			return "", fmt.Errorf("read word file: %w", err)
		}
		if err := checkWordSheet(data); err != nil {
			return "", err
		}
		file.Body = bytes.NewReader(data)
	}

	msg, err := s.api.UploadWords(ctx, module, file)
	if err != nil {
		s.logger.Warn("failed to upload words", zap.String("module", module), zap.Error(err))
		return "", fmt.Errorf("upload words: %w", err)
	}
	return msg, nil
}

func checkWordSheet(data []byte) error {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = wordColumns
	r.TrimLeadingSpace = true

	rows := 0
	for {
		_, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return &ValidationError{Field: "FileName", Message: "单词文件必须为三列：英文、音标、词性及中文"}
		}
		rows++
	}
	if rows == 0 {
		return &ValidationError{Field: "FileName", Message: "单词文件为空"}
	}
	return nil
}

// RemoveWord deletes a word from the local catalog only.
func (s *QuizService) RemoveWord(ctx context.Context, id string) error {
	if _, err := requireAdmin(s.sessions); err != nil {
		return err
	}

	found := false
	s.words.Update(ctx, func(items []entities.Word) []entities.Word {
		out := items[:0]
		for _, w := range items {
			if w.ID == id {
				found = true
				continue
			}
			out = append(out, w)
		}
		return out
	})
	if !found {
		return ErrNotFound
	}
	return nil
}
