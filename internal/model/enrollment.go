package model

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment links a learner to a course's video/test lifecycle. At most one
// row exists per (user, course) pair, enforced by the composite unique index
// and the find-or-create enroll path.
type Enrollment struct {
	ID                   uint           `gorm:"primarykey" json:"id"`
	UserID               uint           `json:"user_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course"`
	CourseID             uint           `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course"`
	Course               Course         `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	VideoWatched         bool           `json:"video_watched" gorm:"not null;default:false"`
	BestScore            int            `json:"best_score" gorm:"not null;default:0"`
	CertificateGenerated bool           `json:"certificate_generated" gorm:"not null;default:false"`
	CertificateURL       string         `json:"certificate_url,omitempty"`
	CompletedAt          *time.Time     `json:"completed_at,omitempty"`
	EnrolledAt           time.Time      `json:"enrolled_at" gorm:"autoCreateTime"`
	Attempts             []TestAttempt  `json:"attempts,omitempty" gorm:"foreignKey:EnrollmentID"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
}

// ApplyAttempt folds a freshly appended attempt into the enrollment's derived
// fields. BestScore never decreases; the certificate flag flips exactly once,
// on the first passing attempt.
func (e *Enrollment) ApplyAttempt(a *TestAttempt) {
	if a.Score > e.BestScore {
		e.BestScore = a.Score
	}
	if a.Passed && !e.CertificateGenerated {
		e.CertificateGenerated = true
		completed := a.CompletedAt
		e.CompletedAt = &completed
	}
}

// LatestAttempt returns the highest-numbered attempt, or nil when the test has
// never been taken. Attempts are expected in ascending attempt_number order.
func (e *Enrollment) LatestAttempt() *TestAttempt {
	if len(e.Attempts) == 0 {
		return nil
	}
	return &e.Attempts[len(e.Attempts)-1]
}
