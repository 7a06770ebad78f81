package entities

// Role is the platform role issued by the backend.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Session is the authenticated identity of one client.
type Session struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Phone    *string `json:"phone,omitempty"` // only known after registration
	Role     Role    `json:"role"`
}

// IsAdmin reports whether the session carries the admin role.
// A nil session is never admin.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

// RoleLabel returns the display label of the session role.
func (s *Session) RoleLabel() string {
	if s.IsAdmin() {
		return AdminLabel
	}
	return "学生"
}

// AdminLabel is the author name of admin posts and the phone placeholder
// of suggestions sent by sessions without a phone.
const AdminLabel = "管理员"
