package entities

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus is the lifecycle status of an interview session
type SessionStatus string

const (
	SessionStatusCreated   SessionStatus = "created"
	SessionStatusRunning   SessionStatus = "running"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusAbandoned SessionStatus = "abandoned"
)

// InterviewSession records one mock interview
type InterviewSession struct {
	ID            uuid.UUID     `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Status        SessionStatus `json:"status" gorm:"type:varchar(20);not null;default:'created';index"`
	QuestionCount int           `json:"question_count" gorm:"not null;default:0"`
	EntryCount    int           `json:"entry_count" gorm:"not null;default:0"`
	CreatedAt     time.Time     `json:"created_at" gorm:"autoCreateTime"`
	StartedAt     *time.Time    `json:"started_at,omitempty" gorm:"type:timestamp"`
	EndedAt       *time.Time    `json:"ended_at,omitempty" gorm:"type:timestamp"`
}

// TableName specifies the table name for GORM
func (InterviewSession) TableName() string {
	return "interview_sessions"
}

// NewInterviewSession creates a new session record
func NewInterviewSession(id uuid.UUID) *InterviewSession {
	return &InterviewSession{
		ID:        id,
		Status:    SessionStatusCreated,
		CreatedAt: time.Now(),
	}
}

// IsFinished reports whether the session reached a terminal status
func (s *InterviewSession) IsFinished() bool {
	return s.Status == SessionStatusCompleted || s.Status == SessionStatusAbandoned
}
