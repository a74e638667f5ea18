package dto

import "time"

// AnswerDetailDTO is the per-question breakdown of a scored attempt.
type AnswerDetailDTO struct {
	QuestionID     uint `json:"question_id"`
	SelectedAnswer int  `json:"selected_answer"`
	IsCorrect      bool `json:"is_correct"`
}

// AttemptResultDTO summarizes one scored attempt.
type AttemptResultDTO struct {
	AttemptNumber  int               `json:"attempt_number"`
	Score          int               `json:"score"`
	CorrectAnswers int               `json:"correct_answers"`
	WrongAnswers   int               `json:"wrong_answers"`
	TotalQuestions int               `json:"total_questions"`
	Passed         bool              `json:"passed"`
	Details        []AnswerDetailDTO `json:"details,omitempty"`
	CompletedAt    time.Time         `json:"completed_at"`
}

// TestViewDTO is the response of the gated test endpoint. Questions are empty
// once the latest attempt passed; PreviousResult is nil before the first
// attempt.
type TestViewDTO struct {
	CourseID         uint                `json:"course_id"`
	HasAttempted     bool                `json:"has_attempted"`
	Questions        []QuestionPublicDTO `json:"questions"`
	TimeLimitMinutes int                 `json:"time_limit_minutes"`
	PreviousResult   *AttemptResultDTO   `json:"previous_result,omitempty"`
}

// SubmitResultDTO is returned after scoring a submission.
type SubmitResultDTO struct {
	AttemptNumber        int               `json:"attempt_number"`
	Score                int               `json:"score"`
	CorrectAnswers       int               `json:"correct_answers"`
	WrongAnswers         int               `json:"wrong_answers"`
	TotalQuestions       int               `json:"total_questions"`
	Passed               bool              `json:"passed"`
	BestScore            int               `json:"best_score"`
	CertificateGenerated bool              `json:"certificate_generated"`
	Details              []AnswerDetailDTO `json:"details,omitempty"`
}

// CertificateDataDTO is returned when the user has completed every published
// course.
type CertificateDataDTO struct {
	UserName       string    `json:"user_name"`
	Serial         string    `json:"serial"`
	CompletionDate time.Time `json:"completion_date"`
	TotalCourses   int       `json:"total_courses"`
}

// CertificateProgressDTO is returned while the user is still working through
// the catalog.
type CertificateProgressDTO struct {
	TotalCourses     int `json:"total_courses"`
	EnrolledCourses  int `json:"enrolled_courses"`
	CompletedCourses int `json:"completed_courses"`
}

type CertificateStatusDTO struct {
	Eligible    bool                    `json:"eligible"`
	Certificate *CertificateDataDTO     `json:"certificate_data,omitempty"`
	Progress    *CertificateProgressDTO `json:"progress,omitempty"`
}
