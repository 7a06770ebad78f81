package entities

// Suggestion is a message from a user to the admins.
type Suggestion struct {
	ID          string  `json:"id"`
	UserID      string  `json:"userId"`
	Phone       string  `json:"phone"`
	Content     string  `json:"content"`
	FileURL     *string `json:"fileUrl,omitempty"`
	Feedback    *string `json:"feedback,omitempty"`
	Date        string  `json:"date"`
	Provisional bool    `json:"provisional,omitempty"`
}

// Replied reports whether an admin has answered the suggestion.
func (s Suggestion) Replied() bool {
	return s.Feedback != nil
}

// Status returns the display status of the suggestion.
func (s Suggestion) Status() string {
	if s.Replied() {
		return "已回复"
	}
	return "待处理"
}
