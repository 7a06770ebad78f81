package service

import (
	"errors"

	"github.com/aliskhannn/xueling-bot/internal/api"
	"github.com/aliskhannn/xueling-bot/internal/domain/entities"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbidden        = errors.New("admin role required")
	ErrNoWords          = errors.New("no words available for module")
	ErrNotInQuiz        = errors.New("no quiz in progress")
	ErrNotFound         = errors.New("item not found")
	ErrNoDraft          = errors.New("no reply draft")
)

// ValidationError is a missing or malformed input, reported before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

const (
	msgTransport = "网络错误，请检查后端服务是否可用。"
	msgGeneric   = "操作失败，请稍后重试。"
)

var messages = map[error]string{
	ErrNotAuthenticated:         "请先登录。",
	ErrForbidden:                "仅管理员可以执行此操作。",
	ErrNoWords:                  "该模块暂无单词。",
	ErrNotInQuiz:                "当前没有进行中的默写。",
	ErrNotFound:                 "未找到该条目。",
	ErrNoDraft:                  "没有待发送的回复。",
	entities.ErrTurnAnswered:    "已提交答案，请点击“下一个”。",
	entities.ErrTurnNotAnswered: "请先提交答案。",
}

// UserMessage converts err into the notice shown to the user.
func UserMessage(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	for target, msg := range messages {
		if errors.Is(err, target) {
			return msg
		}
	}
	if errors.Is(err, api.ErrTransport) {
		return msgTransport
	}
	if detail, ok := api.Detail(err); ok {
		return detail
	}
	return msgGeneric
}
