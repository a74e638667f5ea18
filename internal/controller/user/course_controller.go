package user

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Ocelots/internal/dto"
	"github.com/lshigami/Ocelots/internal/service"
)

type CourseController struct {
	courseService service.CourseService
}

func NewCourseController(courseService service.CourseService) *CourseController {
	return &CourseController{courseService: courseService}
}

// ListCourses godoc
// @Summary List published courses
// @Tags Courses
// @Produce json
// @Success 200 {array} dto.CourseSummaryDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	courses, err := c.courseService.ListCourses(true)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve courses"})
		return
	}
	ctx.JSON(http.StatusOK, courses)
}

// GetCourse godoc
// @Summary Get a published course with its questions (no answer key)
// @Tags Courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.CourseResponseDTO
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid Course ID format"})
		return
	}

	course, err := c.courseService.GetCourse(uint(id))
	if err != nil || !course.IsPublished {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Course not found"})
		return
	}
	ctx.JSON(http.StatusOK, course)
}
