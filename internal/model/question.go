package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// OptionCount is the fixed number of answer options per MCQ question.
const OptionCount = 4

type Question struct {
	ID                 uint           `gorm:"primarykey" json:"id"`
	CourseID           uint           `json:"course_id" gorm:"not null;index"`
	Text               string         `json:"text" gorm:"type:text;not null"`
	Options            pq.StringArray `json:"options" gorm:"type:text[];not null"`
	CorrectAnswerIndex int            `json:"-" gorm:"not null"` // never serialized to students
	OrderInCourse      int            `json:"order_in_course" gorm:"not null"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}
