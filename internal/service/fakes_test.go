package service

import (
	"sort"
	"sync"
	"time"

	"github.com/lshigami/Ocelots/config"
	"github.com/lshigami/Ocelots/internal/model"
	"github.com/lshigami/Ocelots/internal/repository"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.JWTIssuer = "test-issuer"
	cfg.Auth.TokenTTLH = 1
	cfg.Scoring.PassThresholdPercent = 40
	cfg.Scoring.ViolationRestartDelayS = 2
	return cfg
}

// In-memory repository fakes. They mirror the gorm-backed implementations
// closely enough for service tests: gorm.ErrRecordNotFound on misses,
// ascending attempt order, and serialized attempt numbering.

var (
	_ repository.UserRepository       = (*fakeUserRepo)(nil)
	_ repository.CourseRepository     = (*fakeCourseRepo)(nil)
	_ repository.EnrollmentRepository = (*fakeEnrollmentRepo)(nil)
)

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*model.User)}
}

func (r *fakeUserRepo) Create(user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	user.ID = r.nextID
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) FindByID(id uint) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeCourseRepo struct {
	mu      sync.Mutex
	nextID  uint
	courses map[uint]*model.Course
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: make(map[uint]*model.Course)}
}

func (r *fakeCourseRepo) Create(course *model.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	course.ID = r.nextID
	course.CreatedAt = time.Now()
	for i := range course.Questions {
		course.Questions[i].ID = course.ID*100 + uint(i) + 1
		course.Questions[i].CourseID = course.ID
	}
	clone := cloneCourse(course)
	r.courses[course.ID] = &clone
	return nil
}

func (r *fakeCourseRepo) FindByID(id uint) (*model.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *c
	clone.Questions = nil
	return &clone, nil
}

func (r *fakeCourseRepo) FindByIDWithQuestions(id uint) (*model.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := cloneCourse(c)
	sort.Slice(clone.Questions, func(i, j int) bool {
		return clone.Questions[i].OrderInCourse < clone.Questions[j].OrderInCourse
	})
	return &clone, nil
}

func (r *fakeCourseRepo) FindAllWithQuestionCount(publishedOnly bool) ([]repository.CourseWithQuestionCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var results []repository.CourseWithQuestionCount
	for _, c := range r.courses {
		if publishedOnly && !c.IsPublished {
			continue
		}
		clone := *c
		count := len(c.Questions)
		clone.Questions = nil
		results = append(results, repository.CourseWithQuestionCount{Course: clone, QuestionCount: count})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Course.ID < results[j].Course.ID })
	return results, nil
}

func (r *fakeCourseRepo) FindPublishedIDs() ([]uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uint
	for _, c := range r.courses {
		if c.IsPublished {
			ids = append(ids, c.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *fakeCourseRepo) Update(course *model.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.courses[course.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	questions := existing.Questions
	clone := cloneCourse(course)
	clone.Questions = questions
	r.courses[course.ID] = &clone
	return nil
}

func (r *fakeCourseRepo) ReplaceQuestions(courseID uint, questions []model.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.courses[courseID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Questions = nil
	for i := range questions {
		questions[i].ID = courseID*100 + uint(i) + 1
		questions[i].CourseID = courseID
		c.Questions = append(c.Questions, questions[i])
	}
	return nil
}

func (r *fakeCourseRepo) SetPublished(id uint, published bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.courses[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.IsPublished = published
	return nil
}

func (r *fakeCourseRepo) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.courses, id)
	return nil
}

func cloneCourse(c *model.Course) model.Course {
	clone := *c
	clone.Questions = append([]model.Question(nil), c.Questions...)
	return clone
}

type fakeEnrollmentRepo struct {
	mu      sync.Mutex
	nextID  uint
	rows    map[uint]*model.Enrollment
	order   []uint // enrollment ids in creation order
	courses *fakeCourseRepo
}

func newFakeEnrollmentRepo(courses *fakeCourseRepo) *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{rows: make(map[uint]*model.Enrollment), courses: courses}
}

func (r *fakeEnrollmentRepo) FindOrCreate(userID, courseID uint) (*model.Enrollment, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.rows {
		if e.UserID == userID && e.CourseID == courseID {
			clone := cloneEnrollment(e)
			return &clone, false, nil
		}
	}
	r.nextID++
	e := &model.Enrollment{
		ID:         r.nextID,
		UserID:     userID,
		CourseID:   courseID,
		EnrolledAt: time.Now(),
	}
	r.rows[e.ID] = e
	r.order = append(r.order, e.ID)
	clone := cloneEnrollment(e)
	return &clone, true, nil
}

func (r *fakeEnrollmentRepo) FindByUserAndCourse(userID, courseID uint) (*model.Enrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.findLocked(userID, courseID)
	if e == nil {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *e
	clone.Attempts = nil
	return &clone, nil
}

func (r *fakeEnrollmentRepo) FindByUserAndCourseWithAttempts(userID, courseID uint) (*model.Enrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.findLocked(userID, courseID)
	if e == nil {
		return nil, gorm.ErrRecordNotFound
	}
	clone := cloneEnrollment(e)
	return &clone, nil
}

func (r *fakeEnrollmentRepo) FindAllByUserWithAttempts(userID uint) ([]model.Enrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var enrollments []model.Enrollment
	for _, id := range r.order {
		e, ok := r.rows[id]
		if !ok || e.UserID != userID {
			continue
		}
		clone := cloneEnrollment(e)
		if r.courses != nil {
			r.courses.mu.Lock()
			if c, ok := r.courses.courses[e.CourseID]; ok {
				course := *c
				course.Questions = nil
				clone.Course = course
			}
			r.courses.mu.Unlock()
		}
		enrollments = append(enrollments, clone)
	}
	return enrollments, nil
}

func (r *fakeEnrollmentRepo) MarkVideoWatched(userID, courseID uint) (*model.Enrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.findLocked(userID, courseID)
	if e == nil {
		return nil, gorm.ErrRecordNotFound
	}
	e.VideoWatched = true
	clone := cloneEnrollment(e)
	return &clone, nil
}

func (r *fakeEnrollmentRepo) AppendAttempt(enrollmentID uint, attempt *model.TestAttempt) (*model.Enrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.rows[enrollmentID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	attempt.EnrollmentID = enrollmentID
	attempt.AttemptNumber = len(e.Attempts) + 1
	if attempt.CompletedAt.IsZero() {
		attempt.CompletedAt = time.Now()
	}
	e.Attempts = append(e.Attempts, *attempt)
	e.ApplyAttempt(attempt)
	clone := cloneEnrollment(e)
	return &clone, nil
}

func (r *fakeEnrollmentRepo) findLocked(userID, courseID uint) *model.Enrollment {
	for _, e := range r.rows {
		if e.UserID == userID && e.CourseID == courseID {
			return e
		}
	}
	return nil
}

func cloneEnrollment(e *model.Enrollment) model.Enrollment {
	clone := *e
	clone.Attempts = append([]model.TestAttempt(nil), e.Attempts...)
	return clone
}
