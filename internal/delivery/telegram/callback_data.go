package telegram

import (
	"strconv"
	"strings"

	"github.com/aliskhannn/xueling-bot/internal/domain/entities"
)

// Callback action constants.
const (
	actionTab      = "tab"
	actionResource = "res"
	actionQuiz     = "quiz"
	actionMistake  = "mis"
	actionWord     = "word"
	actionFeedback = "fb"
	actionMine     = "mine"
)

// Resource sub-actions.
const (
	resourceModule   = "mod"
	resourceOpen     = "open"
	resourceDownload = "dl"
	resourceConfirm  = "dlok"
)

// Quiz sub-actions.
const (
	quizStart    = "start"
	quizNext     = "next"
	quizOption   = "opt"
	quizBack     = "back"
	quizMistakes = "mistakes"
	quizAdmin    = "admin"
)

// Feedback sub-actions.
const (
	feedbackReply  = "reply"
	feedbackRetry  = "retry"
	feedbackCancel = "cancel"
)

const actionDelete = "del"

// allModulesIndex selects every module in a module keyboard.
const allModulesIndex = -1

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// param returns the i-th parameter or "".
func (cd callbackData) param(i int) string {
	if i < 0 || i >= len(cd.Params) {
		return ""
	}
	return cd.Params[i]
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	if len(parts) == 0 {
		return callbackData{Raw: data}
	}

	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

func buildTabCallback(v entities.View) string {
	return callbackData{Action: actionTab, Params: []string{string(v)}}.encode()
}

// buildResourceModuleCallback filters the library by the module at index,
// module names can exceed the callback size limit.
func buildResourceModuleCallback(index int) string {
	return callbackData{
		Action: actionResource,
		Params: []string{resourceModule, strconv.Itoa(index)},
	}.encode()
}

func buildResourceCallback(sub, id string) string {
	return callbackData{Action: actionResource, Params: []string{sub, id}}.encode()
}

func buildQuizStartCallback(index int) string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{quizStart, strconv.Itoa(index)},
	}.encode()
}

func buildQuizOptionCallback(opt entities.DisplayOption) string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{quizOption, string(opt)},
	}.encode()
}

func buildQuizCallback(sub string) string {
	return callbackData{Action: actionQuiz, Params: []string{sub}}.encode()
}

func buildMistakeDeleteCallback(id string) string {
	return callbackData{Action: actionMistake, Params: []string{actionDelete, id}}.encode()
}

func buildWordDeleteCallback(id string) string {
	return callbackData{Action: actionWord, Params: []string{actionDelete, id}}.encode()
}

func buildFeedbackCallback(sub string, id ...string) string {
	return callbackData{
		Action: actionFeedback,
		Params: append([]string{sub}, id...),
	}.encode()
}

func buildMineCallback() string {
	return actionMine
}
