package dto

// QuestionCreateDTO is used within CourseCreateDTO for instructor course authoring.
type QuestionCreateDTO struct {
	Text               string   `json:"text" binding:"required"`
	Options            []string `json:"options" binding:"required,len=4,dive,required"`
	CorrectAnswerIndex int      `json:"correct_answer_index" binding:"min=0,max=3"`
	OrderInCourse      int      `json:"order_in_course" binding:"required,min=1"`
}

// CourseCreateDTO is for an instructor to create a new course with its MCQ test.
type CourseCreateDTO struct {
	Title                string              `json:"title" binding:"required"`
	Category             string              `json:"category"`
	Level                string              `json:"level"`
	Description          string              `json:"description"`
	VideoURL             string              `json:"video_url"`
	TestTimeLimitMinutes int                 `json:"test_time_limit_minutes" binding:"required,min=1"`
	Questions            []QuestionCreateDTO `json:"questions" binding:"omitempty,dive"`
}

// CourseUpdateDTO updates course metadata. Questions are replaced wholesale
// when provided; an unpublished course may be edited freely.
type CourseUpdateDTO struct {
	Title                string              `json:"title" binding:"required"`
	Category             string              `json:"category"`
	Level                string              `json:"level"`
	Description          string              `json:"description"`
	VideoURL             string              `json:"video_url"`
	TestTimeLimitMinutes int                 `json:"test_time_limit_minutes" binding:"required,min=1"`
	Questions            []QuestionCreateDTO `json:"questions" binding:"omitempty,dive"`
}

type PublishRequest struct {
	IsPublished *bool `json:"is_published" binding:"required"`
}
