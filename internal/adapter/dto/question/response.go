package question

import "time"

// DialogResponse represents one dialog line
type DialogResponse struct {
	ID        string    `json:"id"`
	Category  string    `json:"category"`
	Text      string    `json:"dialog"`
	CreatedAt time.Time `json:"created_at"`
}

// QuestionsResponse represents the material of one interview
type QuestionsResponse struct {
	Introduction *DialogResponse   `json:"introduction"`
	Questions    []*DialogResponse `json:"questions"`
}
