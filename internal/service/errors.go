package service

import "errors"

// Domain errors mapped by the controllers onto HTTP statuses.
var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")

	ErrCourseNotFound   = errors.New("course not found")
	ErrCoursePublished  = errors.New("published courses cannot be edited")
	ErrTestNotAvailable = errors.New("test not available for this course")

	ErrNotEnrolled         = errors.New("not enrolled in this course")
	ErrVideoNotWatched     = errors.New("watch the course video before taking the test")
	ErrAnswerCountMismatch = errors.New("answers array length does not match the question count")
	ErrNoQuestions         = errors.New("test has no questions")
)
