package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TestAttempt is one scored submission of a course's test. Attempts are
// append-only: rows are never updated or removed, and AttemptNumber is
// sequential and gap-free per enrollment.
type TestAttempt struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	EnrollmentID   uint           `json:"enrollment_id" gorm:"not null;uniqueIndex:idx_attempt_enrollment_number"`
	AttemptNumber  int            `json:"attempt_number" gorm:"not null;uniqueIndex:idx_attempt_enrollment_number"`
	Score          int            `json:"score" gorm:"not null"` // 0-100
	CorrectAnswers int            `json:"correct_answers" gorm:"not null"`
	TotalQuestions int            `json:"total_questions" gorm:"not null"`
	Passed         bool           `json:"passed" gorm:"not null"`
	Details        datatypes.JSON `json:"details,omitempty" gorm:"type:jsonb"`
	CompletedAt    time.Time      `json:"completed_at" gorm:"autoCreateTime"`
	CreatedAt      time.Time      `json:"created_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// AnswerDetail is the per-question record stored in TestAttempt.Details.
type AnswerDetail struct {
	QuestionID     uint `json:"question_id"`
	SelectedAnswer int  `json:"selected_answer"` // -1 when unanswered
	IsCorrect      bool `json:"is_correct"`
}
