package entities

// View is a top-level tab of the client.
type View string

const (
	ViewLogin     View = "login" // shown whenever there is no session
	ViewForum     View = "forum"
	ViewResources View = "resources"
	ViewQuiz      View = "quiz"
	ViewAdmin     View = "admin"
)

// Title returns the tab caption.
func (v View) Title() string {
	switch v {
	case ViewForum:
		return "论坛区"
	case ViewResources:
		return "资料区"
	case ViewQuiz:
		return "单词默写器"
	case ViewAdmin:
		return "后台管理"
	default:
		return "登录"
	}
}

// ParseView maps a tab id to a View. Unknown ids report false.
func ParseView(s string) (View, bool) {
	switch v := View(s); v {
	case ViewForum, ViewResources, ViewQuiz, ViewAdmin:
		return v, true
	}
	return "", false
}
