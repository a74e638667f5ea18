package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Ocelots/internal/dto"
	"github.com/lshigami/Ocelots/internal/service"
	"github.com/rs/zerolog/log"
)

type AdminCourseController struct {
	courseService service.CourseService
}

func NewAdminCourseController(courseService service.CourseService) *AdminCourseController {
	return &AdminCourseController{courseService: courseService}
}

// CreateCourse godoc
// @Summary (Admin) Create a course with its MCQ test
// @Description Each question carries exactly 4 options and a correct answer index.
// @Tags Admin - Courses
// @Accept json
// @Produce json
// @Param course body dto.CourseCreateDTO true "Course data including optional questions"
// @Success 201 {object} dto.CourseAdminDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/courses [post]
func (c *AdminCourseController) CreateCourse(ctx *gin.Context) {
	var req dto.CourseCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind CourseCreateDTO")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}
	if msg, ok := validateQuestions(req.Questions); !ok {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: msg})
		return
	}

	resp, err := c.courseService.CreateCourse(req)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create course")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to create course"})
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// ListCourses godoc
// @Summary (Admin) List all courses, published or not
// @Tags Admin - Courses
// @Produce json
// @Success 200 {array} dto.CourseSummaryDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/courses [get]
func (c *AdminCourseController) ListCourses(ctx *gin.Context) {
	courses, err := c.courseService.ListCourses(false)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve courses"})
		return
	}
	ctx.JSON(http.StatusOK, courses)
}

// GetCourse godoc
// @Summary (Admin) Get a course with answer keys
// @Tags Admin - Courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.CourseAdminDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/courses/{id} [get]
func (c *AdminCourseController) GetCourse(ctx *gin.Context) {
	id, ok := idParam(ctx)
	if !ok {
		return
	}
	resp, err := c.courseService.GetCourseAdmin(id)
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Course not found"})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// UpdateCourse godoc
// @Summary (Admin) Update course metadata and questions
// @Description Questions, when provided, replace the existing set. Rejected on published courses.
// @Tags Admin - Courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param course body dto.CourseUpdateDTO true "Updated course data"
// @Success 200 {object} dto.CourseAdminDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Course is published"
// @Router /admin/courses/{id} [put]
func (c *AdminCourseController) UpdateCourse(ctx *gin.Context) {
	id, ok := idParam(ctx)
	if !ok {
		return
	}

	var req dto.CourseUpdateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}
	if msg, ok := validateQuestions(req.Questions); !ok {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: msg})
		return
	}

	resp, err := c.courseService.UpdateCourse(id, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
		case errors.Is(err, service.ErrCoursePublished):
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
		default:
			log.Error().Err(err).Uint("courseID", id).Msg("Failed to update course")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to update course"})
		}
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// SetPublished godoc
// @Summary (Admin) Publish or unpublish a course
// @Description Publishing requires at least one question; until then the test stays inert.
// @Tags Admin - Courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param state body dto.PublishRequest true "Publish state"
// @Success 200 {object} dto.CourseAdminDTO
// @Failure 400 {object} dto.ErrorResponse "No questions configured"
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/courses/{id}/publish [patch]
func (c *AdminCourseController) SetPublished(ctx *gin.Context) {
	id, ok := idParam(ctx)
	if !ok {
		return
	}

	var req dto.PublishRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}

	resp, err := c.courseService.SetPublished(ctx.Request.Context(), id, *req.IsPublished)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
		case errors.Is(err, service.ErrNoQuestions):
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Cannot publish a course without questions"})
		default:
			log.Error().Err(err).Uint("courseID", id).Msg("Failed to change publish state")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to change publish state"})
		}
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// DeleteCourse godoc
// @Summary (Admin) Delete a course
// @Description Existing enrollments are left in place and filtered as orphans at read time.
// @Tags Admin - Courses
// @Param id path int true "Course ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/courses/{id} [delete]
func (c *AdminCourseController) DeleteCourse(ctx *gin.Context) {
	id, ok := idParam(ctx)
	if !ok {
		return
	}
	if err := c.courseService.DeleteCourse(id); err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
			return
		}
		log.Error().Err(err).Uint("courseID", id).Msg("Failed to delete course")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to delete course"})
		return
	}
	ctx.Status(http.StatusNoContent)
}

func idParam(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid Course ID format"})
		return 0, false
	}
	return uint(id), true
}

// validateQuestions enforces unique ordering and in-range answer keys beyond
// what binding tags express.
func validateQuestions(questions []dto.QuestionCreateDTO) (string, bool) {
	orders := make(map[int]bool, len(questions))
	for _, q := range questions {
		if orders[q.OrderInCourse] {
			return "Duplicate order_in_course among questions", false
		}
		orders[q.OrderInCourse] = true
		if q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex >= len(q.Options) {
			return "correct_answer_index must point at one of the options", false
		}
	}
	return "", true
}
