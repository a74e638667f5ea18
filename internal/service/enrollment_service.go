package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lshigami/Ocelots/internal/dto"
	"github.com/lshigami/Ocelots/internal/model"
	"github.com/lshigami/Ocelots/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type EnrollmentService interface {
	Enroll(userID, courseID uint) (*dto.EnrollmentResponseDTO, error)
	GetMyEnrollments(userID uint) ([]dto.EnrollmentResponseDTO, error)
	MarkVideoWatched(userID, courseID uint) (*dto.EnrollmentResponseDTO, error)
	GetTestView(userID, courseID uint) (*dto.TestViewDTO, error)
	SubmitTest(userID, courseID uint, req dto.SubmitTestRequest) (*dto.SubmitResultDTO, error)
}

type enrollmentService struct {
	courseRepo     repository.CourseRepository
	enrollmentRepo repository.EnrollmentRepository
	scorer         ScoringService
}

func NewEnrollmentService(
	courseRepo repository.CourseRepository,
	enrollmentRepo repository.EnrollmentRepository,
	scorer ScoringService,
) EnrollmentService {
	return &enrollmentService{
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		scorer:         scorer,
	}
}

// Enroll is idempotent: re-enrolling returns the existing enrollment untouched.
func (s *enrollmentService) Enroll(userID, courseID uint) (*dto.EnrollmentResponseDTO, error) {
	course, err := s.courseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("error fetching course %d: %w", courseID, err)
	}
	if !course.IsPublished {
		return nil, ErrCourseNotFound
	}

	enrollment, created, err := s.enrollmentRepo.FindOrCreate(userID, courseID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Uint("courseID", courseID).Msg("Failed to enroll")
		return nil, fmt.Errorf("error enrolling in course %d: %w", courseID, err)
	}
	if created {
		log.Info().Uint("userID", userID).Uint("courseID", courseID).Msg("User enrolled in course")
	}

	resp := enrollmentResponse(enrollment, course.Title, len(enrollment.Attempts))
	return &resp, nil
}

// GetMyEnrollments lists the user's enrollments, silently dropping rows whose
// course has since been deleted (orphans are filtered at read time, never
// cascaded).
func (s *enrollmentService) GetMyEnrollments(userID uint) ([]dto.EnrollmentResponseDTO, error) {
	enrollments, err := s.enrollmentRepo.FindAllByUserWithAttempts(userID)
	if err != nil {
		return nil, fmt.Errorf("error fetching enrollments: %w", err)
	}

	var dtos []dto.EnrollmentResponseDTO
	for _, e := range enrollments {
		if e.Course.ID == 0 {
			log.Warn().Uint("enrollmentID", e.ID).Uint("courseID", e.CourseID).Msg("Skipping orphaned enrollment")
			continue
		}
		dtos = append(dtos, enrollmentResponse(&e, e.Course.Title, len(e.Attempts)))
	}
	return dtos, nil
}

func (s *enrollmentService) MarkVideoWatched(userID, courseID uint) (*dto.EnrollmentResponseDTO, error) {
	enrollment, err := s.enrollmentRepo.MarkVideoWatched(userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotEnrolled
		}
		return nil, fmt.Errorf("error marking video watched: %w", err)
	}
	resp := enrollmentResponse(enrollment, "", len(enrollment.Attempts))
	return &resp, nil
}

// GetTestView applies the attempt gate. Three states drive the response:
// no attempts yet serves the question list alone; a failing latest attempt
// serves the questions plus the previous result; a passing latest attempt
// serves only the result summary, never the questions again.
func (s *enrollmentService) GetTestView(userID, courseID uint) (*dto.TestViewDTO, error) {
	course, enrollment, err := s.gate(userID, courseID)
	if err != nil {
		return nil, err
	}

	view := &dto.TestViewDTO{
		CourseID:         courseID,
		TimeLimitMinutes: course.TestTimeLimitMinutes,
	}

	latest := enrollment.LatestAttempt()
	if latest == nil {
		view.Questions = publicQuestions(course.Questions)
		return view, nil
	}

	view.HasAttempted = true
	view.PreviousResult = attemptResult(latest)
	if !latest.Passed {
		// Retakable: no attempt cap, same question order (fresh randomization
		// is deliberately not performed).
		view.Questions = publicQuestions(course.Questions)
	}
	return view, nil
}

// SubmitTest scores the submission and appends it as a new attempt. The
// append runs under a row lock so concurrent submissions (duplicate network
// retries included) get distinct, gap-free attempt numbers.
func (s *enrollmentService) SubmitTest(userID, courseID uint, req dto.SubmitTestRequest) (*dto.SubmitResultDTO, error) {
	course, enrollment, err := s.gate(userID, courseID)
	if err != nil {
		return nil, err
	}

	result, err := s.scorer.Score(course.Questions, req.Answers)
	if err != nil {
		return nil, err
	}

	detailsJSON, err := json.Marshal(result.Details)
	if err != nil {
		return nil, fmt.Errorf("error encoding attempt details: %w", err)
	}
	attempt := model.TestAttempt{
		Score:          result.Score,
		CorrectAnswers: result.CorrectCount,
		TotalQuestions: result.TotalQuestions,
		Passed:         result.Passed,
		Details:        datatypes.JSON(detailsJSON),
	}

	updated, err := s.enrollmentRepo.AppendAttempt(enrollment.ID, &attempt)
	if err != nil {
		log.Error().Err(err).Uint("enrollmentID", enrollment.ID).Msg("Failed to append attempt")
		return nil, fmt.Errorf("error recording attempt: %w", err)
	}

	log.Info().
		Uint("userID", userID).
		Uint("courseID", courseID).
		Int("attempt", attempt.AttemptNumber).
		Int("score", attempt.Score).
		Bool("passed", attempt.Passed).
		Msg("Test attempt recorded")

	return &dto.SubmitResultDTO{
		AttemptNumber:        attempt.AttemptNumber,
		Score:                attempt.Score,
		CorrectAnswers:       attempt.CorrectAnswers,
		WrongAnswers:         attempt.TotalQuestions - attempt.CorrectAnswers,
		TotalQuestions:       attempt.TotalQuestions,
		Passed:               attempt.Passed,
		BestScore:            updated.BestScore,
		CertificateGenerated: updated.CertificateGenerated,
		Details:              answerDetails(result.Details),
	}, nil
}

// gate enforces the preconditions shared by viewing and submitting a test:
// a live published course with questions, an enrollment, and a watched video.
func (s *enrollmentService) gate(userID, courseID uint) (*model.Course, *model.Enrollment, error) {
	course, err := s.courseRepo.FindByIDWithQuestions(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrCourseNotFound
		}
		return nil, nil, fmt.Errorf("error fetching course %d: %w", courseID, err)
	}
	if !course.TestAvailable() {
		return nil, nil, ErrTestNotAvailable
	}

	enrollment, err := s.enrollmentRepo.FindByUserAndCourseWithAttempts(userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotEnrolled
		}
		return nil, nil, fmt.Errorf("error fetching enrollment: %w", err)
	}
	if !enrollment.VideoWatched {
		return nil, nil, ErrVideoNotWatched
	}
	return course, enrollment, nil
}

func attemptResult(a *model.TestAttempt) *dto.AttemptResultDTO {
	result := &dto.AttemptResultDTO{
		AttemptNumber:  a.AttemptNumber,
		Score:          a.Score,
		CorrectAnswers: a.CorrectAnswers,
		WrongAnswers:   a.TotalQuestions - a.CorrectAnswers,
		TotalQuestions: a.TotalQuestions,
		Passed:         a.Passed,
		CompletedAt:    a.CompletedAt,
	}
	if len(a.Details) > 0 {
		var details []model.AnswerDetail
		if err := json.Unmarshal(a.Details, &details); err != nil {
			log.Warn().Err(err).Uint("attemptID", a.ID).Msg("Failed to decode attempt details")
		} else {
			result.Details = answerDetails(details)
		}
	}
	return result
}

func answerDetails(details []model.AnswerDetail) []dto.AnswerDetailDTO {
	dtos := make([]dto.AnswerDetailDTO, 0, len(details))
	for _, d := range details {
		dtos = append(dtos, dto.AnswerDetailDTO{
			QuestionID:     d.QuestionID,
			SelectedAnswer: d.SelectedAnswer,
			IsCorrect:      d.IsCorrect,
		})
	}
	return dtos
}

func enrollmentResponse(e *model.Enrollment, courseTitle string, attemptCount int) dto.EnrollmentResponseDTO {
	return dto.EnrollmentResponseDTO{
		ID:                   e.ID,
		CourseID:             e.CourseID,
		CourseTitle:          courseTitle,
		VideoWatched:         e.VideoWatched,
		BestScore:            e.BestScore,
		AttemptCount:         attemptCount,
		CertificateGenerated: e.CertificateGenerated,
		CertificateURL:       e.CertificateURL,
		CompletedAt:          e.CompletedAt,
		EnrolledAt:           e.EnrolledAt,
	}
}
