package repository

import (
	"github.com/lshigami/Ocelots/internal/model"
	"gorm.io/gorm"
)

type CourseRepository interface {
	Create(course *model.Course) error
	FindByID(id uint) (*model.Course, error)
	FindByIDWithQuestions(id uint) (*model.Course, error)
	FindAllWithQuestionCount(publishedOnly bool) ([]CourseWithQuestionCount, error)
	FindPublishedIDs() ([]uint, error)
	Update(course *model.Course) error
	ReplaceQuestions(courseID uint, questions []model.Question) error
	SetPublished(id uint, published bool) error
	Delete(id uint) error
}

type CourseWithQuestionCount struct {
	model.Course
	QuestionCount int
}

type courseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(course *model.Course) error {
	// Create with associations also persists course.Questions.
	return r.db.Create(course).Error
}

func (r *courseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.db.First(&course, id).Error
	return &course, err
}

func (r *courseRepository) FindByIDWithQuestions(id uint) (*model.Course, error) {
	var course model.Course
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.order_in_course ASC")
	}).First(&course, id).Error
	return &course, err
}

func (r *courseRepository) FindAllWithQuestionCount(publishedOnly bool) ([]CourseWithQuestionCount, error) {
	var results []CourseWithQuestionCount
	query := r.db.Model(&model.Course{}).
		Select("courses.*, (SELECT COUNT(*) FROM questions WHERE questions.course_id = courses.id AND questions.deleted_at IS NULL) as question_count").
		Where("courses.deleted_at IS NULL").
		Order("courses.created_at DESC")
	if publishedOnly {
		query = query.Where("courses.is_published = ?", true)
	}
	err := query.Scan(&results).Error
	return results, err
}

func (r *courseRepository) FindPublishedIDs() ([]uint, error) {
	var ids []uint
	err := r.db.Model(&model.Course{}).Where("is_published = ?", true).Pluck("id", &ids).Error
	return ids, err
}

func (r *courseRepository) Update(course *model.Course) error {
	return r.db.Save(course).Error
}

func (r *courseRepository) ReplaceQuestions(courseID uint, questions []model.Question) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", courseID).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].CourseID = courseID
		}
		if len(questions) == 0 {
			return nil
		}
		return tx.Create(&questions).Error
	})
}

func (r *courseRepository) SetPublished(id uint, published bool) error {
	return r.db.Model(&model.Course{}).Where("id = ?", id).Update("is_published", published).Error
}

func (r *courseRepository) Delete(id uint) error {
	return r.db.Delete(&model.Course{}, id).Error
}
