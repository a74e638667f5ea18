package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lshigami/Ocelots/config"
	"github.com/lshigami/Ocelots/internal/dto"
	"github.com/lshigami/Ocelots/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const publishedCacheTTL = time.Minute

type CertificateService interface {
	Status(ctx context.Context, userID uint) (*dto.CertificateStatusDTO, error)
}

type certificateService struct {
	userRepo       repository.UserRepository
	courseRepo     repository.CourseRepository
	enrollmentRepo repository.EnrollmentRepository
	redis          *redis.Client // nil when no cache is configured
	passThreshold  int
}

func NewCertificateService(
	userRepo repository.UserRepository,
	courseRepo repository.CourseRepository,
	enrollmentRepo repository.EnrollmentRepository,
	redisClient *redis.Client,
	cfg *config.Config,
) CertificateService {
	return &certificateService{
		userRepo:       userRepo,
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		redis:          redisClient,
		passThreshold:  cfg.Scoring.PassThresholdPercent,
	}
}

// Status recomputes certificate eligibility on read: the user must hold a
// live enrollment in every currently published course, each with the video
// watched and at least one attempt at or above the pass threshold. Note the
// deliberate asymmetry with the retake gate: ANY passing attempt counts here,
// so a later failing attempt never revokes an earned completion.
func (s *certificateService) Status(ctx context.Context, userID uint) (*dto.CertificateStatusDTO, error) {
	publishedIDs, err := s.publishedCourseIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing published courses: %w", err)
	}

	enrollments, err := s.enrollmentRepo.FindAllByUserWithAttempts(userID)
	if err != nil {
		return nil, fmt.Errorf("error fetching enrollments: %w", err)
	}
	byCourse := make(map[uint]int, len(enrollments))
	for i, e := range enrollments {
		byCourse[e.CourseID] = i
	}

	progress := dto.CertificateProgressDTO{TotalCourses: len(publishedIDs)}
	for _, courseID := range publishedIDs {
		idx, enrolled := byCourse[courseID]
		if !enrolled {
			continue
		}
		progress.EnrolledCourses++

		enrollment := enrollments[idx]
		if !enrollment.VideoWatched {
			continue
		}
		for _, attempt := range enrollment.Attempts {
			if attempt.Score >= s.passThreshold {
				progress.CompletedCourses++
				break
			}
		}
	}

	// An empty catalog certifies nobody.
	if progress.TotalCourses == 0 || progress.CompletedCourses < progress.TotalCourses {
		return &dto.CertificateStatusDTO{Eligible: false, Progress: &progress}, nil
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error fetching user %d: %w", userID, err)
	}

	return &dto.CertificateStatusDTO{
		Eligible: true,
		Certificate: &dto.CertificateDataDTO{
			UserName:       user.Name,
			Serial:         uuid.NewString(),
			CompletionDate: time.Now().UTC(),
			TotalCourses:   progress.TotalCourses,
		},
	}, nil
}

// publishedCourseIDs reads the published-course set through the redis cache
// when one is configured, falling back to the database on any cache trouble.
func (s *certificateService) publishedCourseIDs(ctx context.Context) ([]uint, error) {
	if s.redis != nil {
		cached, err := s.redis.Get(ctx, PublishedCoursesCacheKey).Bytes()
		if err == nil {
			var ids []uint
			if err := json.Unmarshal(cached, &ids); err == nil {
				return ids, nil
			}
			log.Warn().Msg("Discarding malformed published-course cache entry")
		} else if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Msg("Published-course cache read failed, falling back to database")
		}
	}

	ids, err := s.courseRepo.FindPublishedIDs()
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if payload, err := json.Marshal(ids); err == nil {
			if err := s.redis.Set(ctx, PublishedCoursesCacheKey, payload, publishedCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("Failed to populate published-course cache")
			}
		}
	}
	return ids, nil
}
