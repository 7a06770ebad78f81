package entities

import "unicode/utf8"

// Word is a vocabulary entry used by the quiz.
type Word struct {
	ID      string `json:"id"`
	English string `json:"english"`
	Chinese string `json:"chinese"`
	POS     string `json:"pos"` // part of speech
	IPA     string `json:"ipa"` // phonetic transcription
	Module  string `json:"module"`
}

// FirstLetter returns the first letter of the english form, or "" for an empty word.
func (w Word) FirstLetter() string {
	r, size := utf8.DecodeRuneInString(w.English)
	if size == 0 || r == utf8.RuneError {
		return ""
	}
	return string(r)
}

// HintLine is one enabled hint of the current word.
type HintLine struct {
	Label string
	Value string
}

// Hint lists the hint lines enabled by opts. Empty POS and IPA are skipped.
// Hints never affect scoring.
func (w Word) Hint(opts DisplayOptions) []HintLine {
	var out []HintLine
	if opts.Chinese {
		out = append(out, HintLine{Label: "中文", Value: w.Chinese})
	}
	if opts.FirstLetter {
		out = append(out, HintLine{Label: "首字母", Value: w.FirstLetter()})
	}
	if opts.POS && w.POS != "" {
		out = append(out, HintLine{Label: "词性", Value: w.POS})
	}
	if opts.IPA && w.IPA != "" {
		out = append(out, HintLine{Label: "音标", Value: w.IPA})
	}
	return out
}

// SeedWords is the catalog used before any word was fetched.
var SeedWords = []Word{
	{ID: "w1", English: "persistence", Chinese: "坚持", POS: "n.", IPA: "/pəˈsɪstəns/", Module: "考研词汇"},
	{ID: "w2", English: "efficient", Chinese: "高效的", POS: "adj.", IPA: "/ɪˈfɪʃnt/", Module: "考研词汇"},
	{ID: "w3", English: "innovation", Chinese: "创新", POS: "n.", IPA: "/ˌɪnəˈveɪʃn/", Module: "雅思词汇"},
	{ID: "w4", English: "strategy", Chinese: "策略", POS: "n.", IPA: "/ˈstrætədʒi/", Module: "雅思词汇"},
}
