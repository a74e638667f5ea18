package repository

import (
	"github.com/lshigami/Ocelots/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentRepository interface {
	// FindOrCreate is the idempotent enroll operation. The returned bool is
	// true when a new enrollment row was created.
	FindOrCreate(userID, courseID uint) (*model.Enrollment, bool, error)
	FindByUserAndCourse(userID, courseID uint) (*model.Enrollment, error)
	// FindByUserAndCourseWithAttempts loads attempts in ascending
	// attempt_number order.
	FindByUserAndCourseWithAttempts(userID, courseID uint) (*model.Enrollment, error)
	// FindAllByUserWithAttempts preloads Course and Attempts for every
	// enrollment of the user, including enrollments whose course has been
	// deleted (callers filter orphans).
	FindAllByUserWithAttempts(userID uint) ([]model.Enrollment, error)
	MarkVideoWatched(userID, courseID uint) (*model.Enrollment, error)
	// AppendAttempt assigns the next sequential attempt number and persists
	// the attempt together with the enrollment's derived fields in one
	// transaction. The enrollment row is locked first so two concurrent
	// submissions cannot observe the same attempt count.
	AppendAttempt(enrollmentID uint, attempt *model.TestAttempt) (*model.Enrollment, error)
}

type enrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) FindOrCreate(userID, courseID uint) (*model.Enrollment, bool, error) {
	var enrollment model.Enrollment
	result := r.db.Where(model.Enrollment{UserID: userID, CourseID: courseID}).
		FirstOrCreate(&enrollment)
	if result.Error != nil {
		return nil, false, result.Error
	}
	return &enrollment, result.RowsAffected > 0, nil
}

func (r *enrollmentRepository) FindByUserAndCourse(userID, courseID uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepository) FindByUserAndCourseWithAttempts(userID, courseID uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.db.Preload("Attempts", func(db *gorm.DB) *gorm.DB {
		return db.Order("test_attempts.attempt_number ASC")
	}).Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepository) FindAllByUserWithAttempts(userID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.db.
		Preload("Course").
		Preload("Attempts", func(db *gorm.DB) *gorm.DB {
			return db.Order("test_attempts.attempt_number ASC")
		}).
		Where("user_id = ?", userID).
		Order("enrolled_at ASC").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *enrollmentRepository) MarkVideoWatched(userID, courseID uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error; err != nil {
			return err
		}
		if enrollment.VideoWatched {
			return nil
		}
		enrollment.VideoWatched = true
		return tx.Save(&enrollment).Error
	})
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepository) AppendAttempt(enrollmentID uint, attempt *model.TestAttempt) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&enrollment, enrollmentID).Error; err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&model.TestAttempt{}).Where("enrollment_id = ?", enrollmentID).Count(&count).Error; err != nil {
			return err
		}
		attempt.EnrollmentID = enrollmentID
		attempt.AttemptNumber = int(count) + 1
		if err := tx.Create(attempt).Error; err != nil {
			return err
		}
		enrollment.ApplyAttempt(attempt)
		return tx.Save(&enrollment).Error
	})
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}
