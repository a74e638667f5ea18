package dto

import "time"

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

type UserResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Category string `json:"category,omitempty"`
	School   string `json:"school,omitempty"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// QuestionAdminDTO exposes the full question, answer key included. Instructor
// surface only.
type QuestionAdminDTO struct {
	ID                 uint     `json:"id"`
	CourseID           uint     `json:"course_id"`
	Text               string   `json:"text"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correct_answer_index"`
	OrderInCourse      int      `json:"order_in_course"`
}

// QuestionPublicDTO is the student-facing question shape. It deliberately has
// no field for the answer key.
type QuestionPublicDTO struct {
	ID            uint     `json:"id"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	OrderInCourse int      `json:"order_in_course"`
}

type CourseSummaryDTO struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Category      string    `json:"category,omitempty"`
	Level         string    `json:"level,omitempty"`
	IsPublished   bool      `json:"is_published"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
}

type CourseResponseDTO struct {
	ID                   uint                `json:"id"`
	Title                string              `json:"title"`
	Category             string              `json:"category,omitempty"`
	Level                string              `json:"level,omitempty"`
	Description          string              `json:"description,omitempty"`
	VideoURL             string              `json:"video_url,omitempty"`
	TestTimeLimitMinutes int                 `json:"test_time_limit_minutes"`
	IsPublished          bool                `json:"is_published"`
	Questions            []QuestionPublicDTO `json:"questions,omitempty"`
	CreatedAt            time.Time           `json:"created_at"`
}

// CourseAdminDTO mirrors CourseResponseDTO but carries the answer key.
type CourseAdminDTO struct {
	ID                   uint               `json:"id"`
	Title                string             `json:"title"`
	Category             string             `json:"category,omitempty"`
	Level                string             `json:"level,omitempty"`
	Description          string             `json:"description,omitempty"`
	VideoURL             string             `json:"video_url,omitempty"`
	TestTimeLimitMinutes int                `json:"test_time_limit_minutes"`
	IsPublished          bool               `json:"is_published"`
	Questions            []QuestionAdminDTO `json:"questions,omitempty"`
	CreatedAt            time.Time          `json:"created_at"`
}

type EnrollmentResponseDTO struct {
	ID                   uint       `json:"id"`
	CourseID             uint       `json:"course_id"`
	CourseTitle          string     `json:"course_title,omitempty"`
	VideoWatched         bool       `json:"video_watched"`
	BestScore            int        `json:"best_score"`
	AttemptCount         int        `json:"attempt_count"`
	CertificateGenerated bool       `json:"certificate_generated"`
	CertificateURL       string     `json:"certificate_url,omitempty"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
	EnrolledAt           time.Time  `json:"enrolled_at"`
}
