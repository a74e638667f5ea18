package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Ocelots/internal/dto"
	"github.com/lshigami/Ocelots/internal/middleware"
	"github.com/lshigami/Ocelots/internal/service"
	"github.com/rs/zerolog/log"
)

type EnrollmentController struct {
	enrollmentService  service.EnrollmentService
	certificateService service.CertificateService
}

func NewEnrollmentController(es service.EnrollmentService, cs service.CertificateService) *EnrollmentController {
	return &EnrollmentController{enrollmentService: es, certificateService: cs}
}

// Enroll godoc
// @Summary Enroll in a course
// @Description Idempotent: enrolling twice returns the existing enrollment.
// @Tags Enrollments
// @Produce json
// @Param course_id path int true "Course ID"
// @Success 200 {object} dto.EnrollmentResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid Course ID format"
// @Failure 404 {object} dto.ErrorResponse "Course not found or not published"
// @Router /enrollments/{course_id} [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	courseID, ok := courseIDParam(ctx)
	if !ok {
		return
	}

	resp, err := c.enrollmentService.Enroll(middleware.CurrentUserID(ctx), courseID)
	if err != nil {
		respondServiceError(ctx, err, "Failed to enroll")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetMyEnrollments godoc
// @Summary List my enrollments
// @Tags Enrollments
// @Produce json
// @Success 200 {array} dto.EnrollmentResponseDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /enrollments [get]
func (c *EnrollmentController) GetMyEnrollments(ctx *gin.Context) {
	resp, err := c.enrollmentService.GetMyEnrollments(middleware.CurrentUserID(ctx))
	if err != nil {
		respondServiceError(ctx, err, "Failed to retrieve enrollments")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// MarkVideoWatched godoc
// @Summary Mark the course video as watched
// @Description Satisfies the precondition for taking the course test.
// @Tags Enrollments
// @Produce json
// @Param course_id path int true "Course ID"
// @Success 200 {object} dto.EnrollmentResponseDTO
// @Failure 403 {object} dto.ErrorResponse "Not enrolled"
// @Router /enrollments/{course_id}/video-watched [patch]
func (c *EnrollmentController) MarkVideoWatched(ctx *gin.Context) {
	courseID, ok := courseIDParam(ctx)
	if !ok {
		return
	}

	resp, err := c.enrollmentService.MarkVideoWatched(middleware.CurrentUserID(ctx), courseID)
	if err != nil {
		respondServiceError(ctx, err, "Failed to mark video watched")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetTest godoc
// @Summary Get the course test through the attempt gate
// @Description Serves questions (no answer key), the previous result, or both,
// @Description depending on whether the latest attempt passed. Requires the
// @Description video-watched gate.
// @Tags Enrollments
// @Produce json
// @Param course_id path int true "Course ID"
// @Success 200 {object} dto.TestViewDTO
// @Failure 403 {object} dto.ErrorResponse "Not enrolled or video not watched"
// @Failure 404 {object} dto.ErrorResponse "Test not available"
// @Router /enrollments/{course_id}/test [get]
func (c *EnrollmentController) GetTest(ctx *gin.Context) {
	courseID, ok := courseIDParam(ctx)
	if !ok {
		return
	}

	resp, err := c.enrollmentService.GetTestView(middleware.CurrentUserID(ctx), courseID)
	if err != nil {
		respondServiceError(ctx, err, "Failed to retrieve test")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// SubmitTest godoc
// @Summary Submit test answers
// @Description Scores the submission and appends an immutable attempt. The
// @Description answers array must match the question count; -1 marks an
// @Description unanswered question.
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param course_id path int true "Course ID"
// @Param submission body dto.SubmitTestRequest true "One selected option index per question"
// @Success 200 {object} dto.SubmitResultDTO
// @Failure 400 {object} dto.ErrorResponse "Malformed answers array"
// @Failure 403 {object} dto.ErrorResponse "Gate not satisfied"
// @Router /enrollments/{course_id}/test/submit [post]
func (c *EnrollmentController) SubmitTest(ctx *gin.Context) {
	courseID, ok := courseIDParam(ctx)
	if !ok {
		return
	}

	var req dto.SubmitTestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind SubmitTestRequest")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}

	resp, err := c.enrollmentService.SubmitTest(middleware.CurrentUserID(ctx), courseID, req)
	if err != nil {
		respondServiceError(ctx, err, "Failed to submit test")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// CertificateStatus godoc
// @Summary Certificate eligibility
// @Description Recomputed on read across every published course.
// @Tags Enrollments
// @Produce json
// @Success 200 {object} dto.CertificateStatusDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /enrollments/certificate-status [get]
func (c *EnrollmentController) CertificateStatus(ctx *gin.Context) {
	resp, err := c.certificateService.Status(ctx.Request.Context(), middleware.CurrentUserID(ctx))
	if err != nil {
		respondServiceError(ctx, err, "Failed to compute certificate status")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

func courseIDParam(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("course_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid Course ID format"})
		return 0, false
	}
	return uint(id), true
}

// respondServiceError maps domain errors onto the HTTP taxonomy: 404 for
// missing resources, 403 for unmet gates, 400 for malformed submissions,
// 500 otherwise.
func respondServiceError(ctx *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound), errors.Is(err, service.ErrTestNotAvailable):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, service.ErrNotEnrolled), errors.Is(err, service.ErrVideoNotWatched):
		ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, service.ErrAnswerCountMismatch), errors.Is(err, service.ErrNoQuestions):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
	default:
		log.Error().Err(err).Msg(fallback)
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: fallback})
	}
}
