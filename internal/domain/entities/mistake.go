package entities

// Mistake is an entry of a user's mistake book. WordID references a Word
// without owning it. A chat may be shared by several accounts, so every
// entry carries its owner.
type Mistake struct {
	ID      string `json:"id"`
	UserID  string `json:"userId"`
	WordID  string `json:"wordId"`
	English string `json:"english"`
	Chinese string `json:"chinese"`
	Date    string `json:"date"`
}
