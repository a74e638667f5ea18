package dto

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=instructor student"`
	Category string `json:"category"`
	School   string `json:"school"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SubmitTestRequest carries one selected option index per question, in course
// question order. -1 marks an unanswered question.
type SubmitTestRequest struct {
	Answers []int `json:"answers" binding:"required"`
}
