package model

import (
	"time"

	"gorm.io/gorm"
)

type Course struct {
	ID                   uint           `gorm:"primarykey" json:"id"`
	Title                string         `json:"title" gorm:"not null;uniqueIndex"`
	Category             string         `json:"category,omitempty"`
	Level                string         `json:"level,omitempty"`
	Description          string         `json:"description,omitempty" gorm:"type:text"`
	VideoURL             string         `json:"video_url,omitempty"`
	TestTimeLimitMinutes int            `json:"test_time_limit_minutes" gorm:"not null;default:10"`
	IsPublished          bool           `json:"is_published" gorm:"not null;default:false;index"`
	Questions            []Question     `json:"questions,omitempty" gorm:"foreignKey:CourseID"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
}

// TestAvailable reports whether the course's test may be served. An unpublished
// course or one without questions keeps its test inert.
func (c *Course) TestAvailable() bool {
	return c.IsPublished && len(c.Questions) > 0
}
