package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Ocelots/internal/dto"
	"github.com/lshigami/Ocelots/internal/model"
	"github.com/lshigami/Ocelots/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// PublishedCoursesCacheKey holds the cached set of published course IDs read
// by the certificate aggregator. Invalidated on any publish-state change.
const PublishedCoursesCacheKey = "courses:published_ids"

type CourseService interface {
	CreateCourse(req dto.CourseCreateDTO) (*dto.CourseAdminDTO, error)
	ListCourses(publishedOnly bool) ([]dto.CourseSummaryDTO, error)
	GetCourse(id uint) (*dto.CourseResponseDTO, error)
	GetCourseAdmin(id uint) (*dto.CourseAdminDTO, error)
	UpdateCourse(id uint, req dto.CourseUpdateDTO) (*dto.CourseAdminDTO, error)
	SetPublished(ctx context.Context, id uint, published bool) (*dto.CourseAdminDTO, error)
	DeleteCourse(id uint) error
}

type courseService struct {
	courseRepo repository.CourseRepository
	redis      *redis.Client // nil when no cache is configured
}

func NewCourseService(courseRepo repository.CourseRepository, redisClient *redis.Client) CourseService {
	return &courseService{courseRepo: courseRepo, redis: redisClient}
}

func (s *courseService) CreateCourse(req dto.CourseCreateDTO) (*dto.CourseAdminDTO, error) {
	course := model.Course{
		Title:                req.Title,
		Category:             req.Category,
		Level:                req.Level,
		Description:          req.Description,
		VideoURL:             req.VideoURL,
		TestTimeLimitMinutes: req.TestTimeLimitMinutes,
	}
	for _, q := range req.Questions {
		course.Questions = append(course.Questions, model.Question{
			Text:               q.Text,
			Options:            q.Options,
			CorrectAnswerIndex: q.CorrectAnswerIndex,
			OrderInCourse:      q.OrderInCourse,
		})
	}

	if err := s.courseRepo.Create(&course); err != nil {
		log.Error().Err(err).Str("title", req.Title).Msg("Failed to create course")
		return nil, fmt.Errorf("error creating course: %w", err)
	}
	return courseAdminDTO(&course), nil
}

func (s *courseService) ListCourses(publishedOnly bool) ([]dto.CourseSummaryDTO, error) {
	coursesWithCount, err := s.courseRepo.FindAllWithQuestionCount(publishedOnly)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list courses with question count")
		return nil, fmt.Errorf("error fetching courses: %w", err)
	}

	var dtos []dto.CourseSummaryDTO
	for _, cwc := range coursesWithCount {
		dtos = append(dtos, dto.CourseSummaryDTO{
			ID:            cwc.Course.ID,
			Title:         cwc.Course.Title,
			Category:      cwc.Course.Category,
			Level:         cwc.Course.Level,
			IsPublished:   cwc.Course.IsPublished,
			QuestionCount: cwc.QuestionCount,
			CreatedAt:     cwc.Course.CreatedAt,
		})
	}
	return dtos, nil
}

func (s *courseService) GetCourse(id uint) (*dto.CourseResponseDTO, error) {
	course, err := s.courseRepo.FindByIDWithQuestions(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("error fetching course %d: %w", id, err)
	}

	var resp dto.CourseResponseDTO
	if err := copier.Copy(&resp, course); err != nil {
		return nil, fmt.Errorf("error preparing course response: %w", err)
	}
	// copier maps Questions field-by-field; the public DTO simply has no slot
	// for the answer key.
	resp.Questions = publicQuestions(course.Questions)
	return &resp, nil
}

func (s *courseService) GetCourseAdmin(id uint) (*dto.CourseAdminDTO, error) {
	course, err := s.courseRepo.FindByIDWithQuestions(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("error fetching course %d: %w", id, err)
	}
	return courseAdminDTO(course), nil
}

func (s *courseService) UpdateCourse(id uint, req dto.CourseUpdateDTO) (*dto.CourseAdminDTO, error) {
	course, err := s.courseRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("error fetching course %d: %w", id, err)
	}

	course.Title = req.Title
	course.Category = req.Category
	course.Level = req.Level
	course.Description = req.Description
	course.VideoURL = req.VideoURL
	course.TestTimeLimitMinutes = req.TestTimeLimitMinutes
	if err := s.courseRepo.Update(course); err != nil {
		return nil, fmt.Errorf("error updating course %d: %w", id, err)
	}

	if req.Questions != nil {
		// Swapping the answer key under learners mid-flight would corrupt
		// attempt history; unpublish first.
		if course.IsPublished {
			return nil, ErrCoursePublished
		}
		questions := make([]model.Question, 0, len(req.Questions))
		for _, q := range req.Questions {
			questions = append(questions, model.Question{
				Text:               q.Text,
				Options:            q.Options,
				CorrectAnswerIndex: q.CorrectAnswerIndex,
				OrderInCourse:      q.OrderInCourse,
			})
		}
		if err := s.courseRepo.ReplaceQuestions(id, questions); err != nil {
			return nil, fmt.Errorf("error replacing questions for course %d: %w", id, err)
		}
	}

	return s.GetCourseAdmin(id)
}

func (s *courseService) SetPublished(ctx context.Context, id uint, published bool) (*dto.CourseAdminDTO, error) {
	course, err := s.courseRepo.FindByIDWithQuestions(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("error fetching course %d: %w", id, err)
	}
	if published && len(course.Questions) == 0 {
		return nil, ErrNoQuestions
	}

	if err := s.courseRepo.SetPublished(id, published); err != nil {
		return nil, fmt.Errorf("error publishing course %d: %w", id, err)
	}
	course.IsPublished = published
	s.invalidatePublishedCache(ctx)
	return courseAdminDTO(course), nil
}

func (s *courseService) DeleteCourse(id uint) error {
	if _, err := s.courseRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("error fetching course %d: %w", id, err)
	}
	if err := s.courseRepo.Delete(id); err != nil {
		return fmt.Errorf("error deleting course %d: %w", id, err)
	}
	s.invalidatePublishedCache(context.Background())
	return nil
}

func (s *courseService) invalidatePublishedCache(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, PublishedCoursesCacheKey).Err(); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate published-course cache")
	}
}

func publicQuestions(questions []model.Question) []dto.QuestionPublicDTO {
	dtos := make([]dto.QuestionPublicDTO, 0, len(questions))
	for _, q := range questions {
		dtos = append(dtos, dto.QuestionPublicDTO{
			ID:            q.ID,
			Text:          q.Text,
			Options:       q.Options,
			OrderInCourse: q.OrderInCourse,
		})
	}
	return dtos
}

func courseAdminDTO(course *model.Course) *dto.CourseAdminDTO {
	resp := dto.CourseAdminDTO{
		ID:                   course.ID,
		Title:                course.Title,
		Category:             course.Category,
		Level:                course.Level,
		Description:          course.Description,
		VideoURL:             course.VideoURL,
		TestTimeLimitMinutes: course.TestTimeLimitMinutes,
		IsPublished:          course.IsPublished,
		CreatedAt:            course.CreatedAt,
	}
	for _, q := range course.Questions {
		resp.Questions = append(resp.Questions, dto.QuestionAdminDTO{
			ID:                 q.ID,
			CourseID:           q.CourseID,
			Text:               q.Text,
			Options:            q.Options,
			CorrectAnswerIndex: q.CorrectAnswerIndex,
			OrderInCourse:      q.OrderInCourse,
		})
	}
	return &resp
}
