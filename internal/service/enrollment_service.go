package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/courseboard/courseboard-api/internal/models"
	"github.com/courseboard/courseboard-api/internal/repository"
	"github.com/courseboard/courseboard-api/internal/schedule"
	appErrors "github.com/courseboard/courseboard-api/pkg/errors"
)

const enrollmentsCacheKey = "enrollments:all"

type enrollmentRepository interface {
	ListStudentsByCourse(ctx context.Context, courseID string) ([]models.Student, error)
	ListCoursesByStudent(ctx context.Context, studentID string) ([]models.Course, error)
	ListAll(ctx context.Context) (models.EnrollmentMap, error)
	ExistsPair(ctx context.Context, courseID, studentID string) (bool, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	DeleteByPair(ctx context.Context, courseID, studentID string) (bool, error)
}

type courseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type studentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// EnrollRequest describes enrollment creation payload.
type EnrollRequest struct {
	StudentID string `json:"student_id" validate:"required"`
}

// EnrollmentService orchestrates enrollment workflows, including the
// overlap check that blocks double-booking a student.
type EnrollmentService struct {
	repo      enrollmentRepository
	courses   courseReader
	students  studentReader
	cache     *CacheService
	events    eventPublisher
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(repo enrollmentRepository, courses courseReader, students studentReader, cache *CacheService, events eventPublisher, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, courses: courses, students: students, cache: cache, events: events, validator: validate, logger: logger}
}

// ListEnrolledStudents returns the roster for one course.
func (s *EnrollmentService) ListEnrolledStudents(ctx context.Context, courseID string) ([]models.Student, error) {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	students, err := s.repo.ListStudentsByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrolled students")
	}
	return students, nil
}

// ListStudentSchedule returns every course a student is enrolled in.
func (s *EnrollmentService) ListStudentSchedule(ctx context.Context, studentID string) ([]models.Course, error) {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	courses, err := s.repo.ListCoursesByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list student schedule")
	}
	return courses, nil
}

// ListAllEnrollments returns every enrolled student grouped by course. The
// grouped map is served from cache when warm.
func (s *EnrollmentService) ListAllEnrollments(ctx context.Context) (models.EnrollmentMap, error) {
	var cached models.EnrollmentMap
	if hit, _ := s.cache.Get(ctx, enrollmentsCacheKey, &cached); hit {
		return cached, nil
	}
	grouped, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	_ = s.cache.Set(ctx, enrollmentsCacheKey, grouped, 0)
	return grouped, nil
}

// Enroll registers a student into a course after checking the student's
// existing schedule for a time overlap. The check reads the schedule and then
// inserts without a transaction; the only store-level guarantee is the unique
// (course, student) pair.
func (s *EnrollmentService) Enroll(ctx context.Context, courseID string, req EnrollRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	exists, err := s.repo.ExistsPair(ctx, courseID, req.StudentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate enrollment")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "student already enrolled in this course")
	}

	enrolled, err := s.repo.ListCoursesByStudent(ctx, req.StudentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student schedule")
	}
	conflicting, err := schedule.FindConflict(course.StartTime, course.DurationMinutes, enrolled)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course schedule")
	}
	if conflicting != nil {
		conflictErr := &schedule.ConflictError{Course: *conflicting}
		return nil, appErrors.Clone(appErrors.ErrConflict, conflictErr.Error())
	}

	enrollment := &models.Enrollment{CourseID: courseID, StudentID: req.StudentID}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "student already enrolled in this course")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}

	s.InvalidateEnrollments(ctx)
	s.publish("enrollment.created", enrollment)
	return enrollment, nil
}

// Unenroll removes the join record linking a course and a student.
func (s *EnrollmentService) Unenroll(ctx context.Context, courseID, studentID string) error {
	removed, err := s.repo.DeleteByPair(ctx, courseID, studentID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete enrollment")
	}
	if !removed {
		return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
	}
	s.InvalidateEnrollments(ctx)
	s.publish("enrollment.deleted", map[string]string{"course_id": courseID, "student_id": studentID})
	return nil
}

// InvalidateEnrollments drops the cached enrollment map. Course and student
// deletions call through here since the store cascades their enrollments.
func (s *EnrollmentService) InvalidateEnrollments(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, enrollmentsCacheKey); err != nil {
		s.logger.Warn("enrollment cache invalidation failed", zap.Error(err))
	}
}

func (s *EnrollmentService) publish(eventType string, data interface{}) {
	if s.events != nil {
		s.events.Publish(eventType, data)
	}
}
