package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleInstructor = "instructor"
	RoleStudent    = "student"
)

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Name         string         `json:"name" gorm:"not null"`
	Email        string         `json:"email" gorm:"not null;uniqueIndex"`
	PasswordHash string         `json:"-" gorm:"not null"`
	Role         string         `json:"role" gorm:"not null;default:'student'"` // "instructor", "student"
	Category     string         `json:"category,omitempty"`                     // grade/level tag
	School       string         `json:"school,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
