package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/courseboard/courseboard-api/internal/models"
	"github.com/courseboard/courseboard-api/internal/repository"
	appErrors "github.com/courseboard/courseboard-api/pkg/errors"
)

// DefaultDurationMinutes is applied when a create request omits the duration.
const DefaultDurationMinutes = 45

type courseRepository interface {
	List(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	ExistsByTitle(ctx context.Context, title string, excludeID string) (bool, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
}

type enrollmentInvalidator interface {
	InvalidateEnrollments(ctx context.Context)
}

type eventPublisher interface {
	Publish(eventType string, data interface{})
}

// CreateCourseRequest holds payload for creating courses.
type CreateCourseRequest struct {
	Title           string `json:"title" validate:"required,max=100"`
	Description     string `json:"description" validate:"required,max=200"`
	StartTime       string `json:"start_time" validate:"required"`
	DurationMinutes int    `json:"duration_minutes" validate:"omitempty,gte=1,lte=1440"`
}

// UpdateCourseRequest holds payload for updating courses. Title is immutable
// after creation and deliberately absent.
type UpdateCourseRequest struct {
	Description     string `json:"description" validate:"required,max=200"`
	StartTime       string `json:"start_time" validate:"required"`
	DurationMinutes int    `json:"duration_minutes" validate:"omitempty,gte=1,lte=1440"`
}

// CourseService handles course use-cases.
type CourseService struct {
	repo        courseRepository
	invalidator enrollmentInvalidator
	events      eventPublisher
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewCourseService constructs the course service.
func NewCourseService(repo courseRepository, invalidator enrollmentInvalidator, events eventPublisher, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, invalidator: invalidator, events: events, validator: validate, logger: logger}
}

// List returns all courses, newest first.
func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}

// Get returns a single course.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Create registers a new course. String fields are trimmed before validation;
// values that are empty after trimming never reach the store.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if req.Title == "" || req.Description == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Title and description cannot be empty or contain only spaces.")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	if err := validateStartTime(req.StartTime); err != nil {
		return nil, err
	}
	if req.DurationMinutes == 0 {
		req.DurationMinutes = DefaultDurationMinutes
	}

	exists, err := s.repo.ExistsByTitle(ctx, req.Title, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate title")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicateTitle, "")
	}

	course := &models.Course{
		Title:           req.Title,
		Description:     req.Description,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrDuplicateTitle, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	s.publish("course.created", course)
	return course, nil
}

// Update modifies the mutable fields of an existing course. The stored title is
// kept as-is; a changed schedule is not re-validated against existing enrollments.
func (s *CourseService) Update(ctx context.Context, id string, req UpdateCourseRequest) (*models.Course, error) {
	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Title and description cannot be empty or contain only spaces.")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	if err := validateStartTime(req.StartTime); err != nil {
		return nil, err
	}

	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	course.Description = req.Description
	course.StartTime = req.StartTime
	if req.DurationMinutes > 0 {
		course.DurationMinutes = req.DurationMinutes
	}
	if err := s.repo.Update(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	s.publish("course.updated", course)
	return course, nil
}

// Delete removes a course. Enrollments referencing it cascade at the store.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	if s.invalidator != nil {
		s.invalidator.InvalidateEnrollments(ctx)
	}
	s.publish("course.deleted", map[string]string{"id": id})
	return nil
}

func (s *CourseService) publish(eventType string, data interface{}) {
	if s.events != nil {
		s.events.Publish(eventType, data)
	}
}

func validateStartTime(clock string) error {
	if _, err := time.Parse("15:04", clock); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "start_time must be in HH:MM format")
	}
	return nil
}
