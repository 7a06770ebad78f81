package api

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/aliskhannn/xueling-bot/internal/domain/entities"
)

// wireID accepts both numeric and string identifiers.
type wireID string

func (id *wireID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = wireID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = wireID(n.String())
	return nil
}

// dateOnly keeps the part of an ISO timestamp before the first "T".
func dateOnly(ts string) string {
	if i := strings.Index(ts, "T"); i >= 0 {
		return ts[:i]
	}
	return ts
}

// optional maps null and empty strings to absent.
func optional(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}

type wireSession struct {
	ID       wireID `json:"id"`
	UserID   wireID `json:"user_id"` // registration answers with user_id only
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (w wireSession) toEntity(username string, phone *string) *entities.Session {
	id := w.ID
	if id == "" {
		id = w.UserID
	}
	if w.Username != "" {
		username = w.Username
	}
	role := entities.Role(w.Role)
	if role != entities.RoleAdmin {
		role = entities.RoleUser
	}
	return &entities.Session{
		ID:       string(id),
		Username: username,
		Phone:    optional(phone),
		Role:     role,
	}
}

type wirePost struct {
	ID        wireID  `json:"id"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	Author    string  `json:"author"`
	Link      *string `json:"link"`
	CreatedAt string  `json:"created_at"`
}

func (w wirePost) toEntity() entities.Post {
	return entities.Post{
		ID:      string(w.ID),
		Title:   w.Title,
		Content: w.Content,
		Author:  w.Author,
		Link:    optional(w.Link),
		Date:    dateOnly(w.CreatedAt),
	}
}

type wireResource struct {
	ID        wireID `json:"id"`
	Title     string `json:"title"`
	Module    string `json:"module"`
	FilePath  string `json:"file_path"`
	CreatedAt string `json:"created_at"`
}

func (w wireResource) toEntity() entities.Resource {
	return entities.Resource{
		ID:     string(w.ID),
		Title:  w.Title,
		Module: w.Module,
		URL:    w.FilePath,
		Date:   dateOnly(w.CreatedAt),
	}
}

type wireSuggestion struct {
	ID        wireID  `json:"id"`
	UserID    wireID  `json:"user_id"`
	Phone     *string `json:"phone"`
	Content   string  `json:"content"`
	FilePath  *string `json:"file_path"`
	Feedback  *string `json:"feedback"`
	CreatedAt string  `json:"created_at"`
}

func (w wireSuggestion) toEntity() entities.Suggestion {
	var phone string
	if w.Phone != nil {
		phone = *w.Phone
	}
	return entities.Suggestion{
		ID:       string(w.ID),
		UserID:   string(w.UserID),
		Phone:    phone,
		Content:  w.Content,
		FileURL:  optional(w.FilePath),
		Feedback: optional(w.Feedback),
		Date:     dateOnly(w.CreatedAt),
	}
}

type wireWord struct {
	ID      wireID `json:"id"`
	English string `json:"english"`
	Chinese string `json:"chinese"`
	POS     string `json:"pos"`
	IPA     string `json:"ipa"`
	Module  string `json:"module"`
}

func (w wireWord) toEntity() entities.Word {
	return entities.Word{
		ID:      string(w.ID),
		English: w.English,
		Chinese: w.Chinese,
		POS:     w.POS,
		IPA:     w.IPA,
		Module:  w.Module,
	}
}

type wireMistake struct {
	ID        wireID    `json:"id"`
	UserID    wireID    `json:"user_id"`
	WordID    wireID    `json:"word_id"`
	English   string    `json:"english"`
	Chinese   string    `json:"chinese"`
	CreatedAt string    `json:"created_at"`
	Word      *wireWord `json:"word"` // present when the backend expands the relation
}

func (w wireMistake) toEntity() entities.Mistake {
	m := entities.Mistake{
		ID:      string(w.ID),
		UserID:  string(w.UserID),
		WordID:  string(w.WordID),
		English: w.English,
		Chinese: w.Chinese,
		Date:    dateOnly(w.CreatedAt),
	}
	if w.Word != nil {
		if m.English == "" {
			m.English = w.Word.English
		}
		if m.Chinese == "" {
			m.Chinese = w.Word.Chinese
		}
		if m.WordID == "" {
			m.WordID = string(w.Word.ID)
		}
	}
	return m
}

func mapAll[W any, E any](in []W, fn func(W) E) []E {
	out := make([]E, 0, len(in))
	for _, w := range in {
		out = append(out, fn(w))
	}
	return out
}
