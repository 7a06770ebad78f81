package entities

import (
	"errors"
	"strings"
)

// QuizView is a state of the quiz feature.
type QuizView string

const (
	QuizSelection QuizView = "selection"
	QuizActive    QuizView = "quiz"
	QuizMistakes  QuizView = "mistakes"
	QuizAdmin     QuizView = "admin"
)

// TurnState is the sub-state of the current quiz turn.
type TurnState int

const (
	TurnAwaiting TurnState = iota // waiting for an answer
	TurnAnswered                  // answer checked, input locked until the next word
)

var (
	ErrTurnAnswered    = errors.New("current word is already answered")
	ErrTurnNotAnswered = errors.New("current word is not answered yet")
	ErrEmptyRound      = errors.New("quiz round has no words")
)

// DisplayOption is one of the hint toggles of a quiz turn.
type DisplayOption string

const (
	OptionChinese     DisplayOption = "cn"
	OptionFirstLetter DisplayOption = "first"
	OptionPOS         DisplayOption = "pos"
	OptionIPA         DisplayOption = "ipa"
)

// DisplayOptions only affect rendering, never scoring.
type DisplayOptions struct {
	Chinese     bool
	FirstLetter bool
	POS         bool
	IPA         bool
}

// DefaultDisplayOptions shows the chinese gloss only.
func DefaultDisplayOptions() DisplayOptions {
	return DisplayOptions{Chinese: true}
}

// Toggle flips one option. Unknown options are ignored.
func (o *DisplayOptions) Toggle(opt DisplayOption) {
	switch opt {
	case OptionChinese:
		o.Chinese = !o.Chinese
	case OptionFirstLetter:
		o.FirstLetter = !o.FirstLetter
	case OptionPOS:
		o.POS = !o.POS
	case OptionIPA:
		o.IPA = !o.IPA
	}
}

// QuizRound is a single pass over a shuffled batch of words.
type QuizRound struct {
	Module  string
	Words   []Word
	Index   int
	Turn    TurnState
	Input   string
	Correct bool
}

// NewQuizRound starts a round at the first word.
func NewQuizRound(module string, words []Word) (*QuizRound, error) {
	if len(words) == 0 {
		return nil, ErrEmptyRound
	}
	return &QuizRound{Module: module, Words: words}, nil
}

// Current returns the word being asked.
func (r *QuizRound) Current() Word {
	return r.Words[r.Index]
}

// Position returns the 1-based index of the current word and the round length.
func (r *QuizRound) Position() (int, int) {
	return r.Index + 1, len(r.Words)
}

// Answer checks input against the current word: trimmed, case-insensitive, exact.
func (r *QuizRound) Answer(input string) (bool, error) {
	if r.Turn == TurnAnswered {
		return false, ErrTurnAnswered
	}
	r.Input = input
	r.Correct = strings.EqualFold(strings.TrimSpace(input), r.Current().English)
	r.Turn = TurnAnswered
	return r.Correct, nil
}

// Advance moves to the next word and resets the turn. It reports true when
// the answered word was the last one.
func (r *QuizRound) Advance() (bool, error) {
	if r.Turn != TurnAnswered {
		return false, ErrTurnNotAnswered
	}
	if r.Index >= len(r.Words)-1 {
		return true, nil
	}
	r.Index++
	r.Turn = TurnAwaiting
	r.Input = ""
	r.Correct = false
	return false, nil
}
