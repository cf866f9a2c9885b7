package interview

import "strings"

// NoResponse is rendered in place of an empty answer.
const NoResponse = "No response"

// TranscriptEntry is one finalized question/answer pair.
type TranscriptEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Transcript is an append-only list of entries.
type Transcript struct {
	entries []TranscriptEntry
}

func (t *Transcript) Append(e TranscriptEntry) {
	t.entries = append(t.entries, e)
}

func (t *Transcript) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the entries.
func (t *Transcript) Entries() []TranscriptEntry {
	out := make([]TranscriptEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// FormatText renders entries as plain "Q:/A:" blocks separated by blank lines.
func FormatText(entries []TranscriptEntry) string {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		answer := e.Answer
		if answer == "" {
			answer = NoResponse
		}
		b.WriteString("Q: ")
		b.WriteString(e.Question)
		b.WriteString("\nA: ")
		b.WriteString(answer)
		b.WriteString("\n")
	}
	return b.String()
}
