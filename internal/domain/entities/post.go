package entities

// Post is a forum post. Posts are never edited by the client.
type Post struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Content     string  `json:"content"`
	Author      string  `json:"author"`
	Link        *string `json:"link,omitempty"`
	Date        string  `json:"date"`                  // YYYY-MM-DD
	Provisional bool    `json:"provisional,omitempty"` // built locally, not yet replaced by the server copy
}

// DefaultQuote is shown until the backend returns the daily quote.
const DefaultQuote = "书山有路勤为径，学海无涯苦作舟。"
