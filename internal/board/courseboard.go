package board

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/courseboard/courseboard-api/internal/models"
	"github.com/courseboard/courseboard-api/internal/schedule"
)

// CourseBoard owns the course list state: the course collection, the
// per-course roster map, and which course (if any) is expanded. State is
// mutated only on confirmed store responses; failed reads leave it unchanged.
type CourseBoard struct {
	store  Store
	logger *zap.Logger

	mu         sync.Mutex
	courses    []models.Course
	enrolled   map[string][]models.Student
	expandedID string
	loadGen    uint64
}

// NewCourseBoard constructs a course board backed by the given store.
func NewCourseBoard(store Store, logger *zap.Logger) *CourseBoard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseBoard{
		store:    store,
		logger:   logger,
		enrolled: make(map[string][]models.Student),
	}
}

// Load fetches the course list and the bulk enrollment map concurrently and
// applies both together. Each call bumps a generation counter; a load that was
// superseded by a newer one discards its result instead of clobbering state.
// Read failures are logged and treated as empty collections.
func (b *CourseBoard) Load(ctx context.Context) {
	b.mu.Lock()
	b.loadGen++
	gen := b.loadGen
	b.mu.Unlock()

	var (
		wg       sync.WaitGroup
		courses  []models.Course
		enrolled models.EnrollmentMap
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		courses, err = b.store.ListCourses(ctx)
		if err != nil {
			b.logger.Warn("failed to fetch courses", zap.Error(err))
			courses = nil
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		enrolled, err = b.store.ListAllEnrollments(ctx)
		if err != nil {
			b.logger.Warn("failed to fetch enrollments", zap.Error(err))
			enrolled = nil
		}
	}()
	wg.Wait()

	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.loadGen {
		return
	}
	b.courses = courses
	b.enrolled = make(map[string][]models.Student, len(enrolled))
	for courseID, students := range enrolled {
		b.enrolled[courseID] = students
	}
}

// Courses returns a snapshot of the course collection.
func (b *CourseBoard) Courses() []models.Course {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Course, len(b.courses))
	copy(out, b.courses)
	return out
}

// EnrolledStudents returns the roster snapshot for one course.
func (b *CourseBoard) EnrolledStudents(courseID string) []models.Student {
	b.mu.Lock()
	defer b.mu.Unlock()
	students := b.enrolled[courseID]
	out := make([]models.Student, len(students))
	copy(out, students)
	return out
}

// ExpandedID returns the currently expanded course, or "" when none is.
func (b *CourseBoard) ExpandedID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.expandedID
}

// ToggleExpand expands the given course, collapsing whichever was expanded
// before; toggling the already-expanded course collapses it. At most one
// course is expanded at a time.
func (b *CourseBoard) ToggleExpand(courseID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.expandedID == courseID {
		b.expandedID = ""
		return
	}
	b.expandedID = courseID
}

// CreateCourse trims inputs, rejects empty-after-trim fields without calling
// the store, and on a confirmed create prepends the new course (newest first).
func (b *CourseBoard) CreateCourse(ctx context.Context, title, description, startTime string, durationMinutes int) (*models.Course, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" || description == "" {
		return nil, ErrEmptyCourseFields
	}

	course, err := b.store.CreateCourse(ctx, title, description, startTime, durationMinutes)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.courses = append([]models.Course{*course}, b.courses...)
	b.mu.Unlock()
	return course, nil
}

// UpdateCourse replaces the matching course in place on success; list order is
// untouched. The title is immutable and not part of the payload.
func (b *CourseBoard) UpdateCourse(ctx context.Context, id, description, startTime string, durationMinutes int) (*models.Course, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrEmptyCourseFields
	}

	course, err := b.store.UpdateCourse(ctx, id, description, startTime, durationMinutes)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	for i := range b.courses {
		if b.courses[i].ID == course.ID {
			b.courses[i] = *course
			break
		}
	}
	b.mu.Unlock()
	return course, nil
}

// DeleteCourse removes the course from local state only when the store
// confirms the delete. A failed delete leaves the row in place and is only
// logged; the user retries manually.
func (b *CourseBoard) DeleteCourse(ctx context.Context, id string) {
	ok, err := b.store.DeleteCourse(ctx, id)
	if err != nil || !ok {
		b.logger.Warn("failed to delete course", zap.String("course_id", id), zap.Error(err))
		return
	}

	b.mu.Lock()
	filtered := b.courses[:0]
	for _, course := range b.courses {
		if course.ID != id {
			filtered = append(filtered, course)
		}
	}
	b.courses = filtered
	delete(b.enrolled, id)
	if b.expandedID == id {
		b.expandedID = ""
	}
	b.mu.Unlock()
}

// EnrollStudent runs the advisory overlap check against the student's current
// schedule before asking the store to enroll. On conflict the enrollment is
// aborted and the error names the clashing course. On success only the target
// course's roster is re-fetched.
func (b *CourseBoard) EnrollStudent(ctx context.Context, courseID, studentID string) error {
	b.mu.Lock()
	var course *models.Course
	for i := range b.courses {
		if b.courses[i].ID == courseID {
			c := b.courses[i]
			course = &c
			break
		}
	}
	b.mu.Unlock()
	if course == nil {
		return errors.New("course not found")
	}

	enrolled, err := b.store.ListStudentSchedule(ctx, studentID)
	if err != nil {
		b.logger.Warn("failed to fetch student schedule", zap.String("student_id", studentID), zap.Error(err))
		return errors.New("An unexpected error occurred.")
	}
	conflicting, err := schedule.FindConflict(course.StartTime, course.DurationMinutes, enrolled)
	if err != nil {
		return errors.New("An unexpected error occurred.")
	}
	if conflicting != nil {
		return &schedule.ConflictError{Course: *conflicting}
	}

	ok, err := b.store.Enroll(ctx, courseID, studentID)
	if err != nil || !ok {
		b.logger.Warn("failed to enroll student", zap.String("course_id", courseID), zap.String("student_id", studentID), zap.Error(err))
		return errors.New("Failed to enroll student. Please try again.")
	}

	b.refreshRoster(ctx, courseID)
	return nil
}

// UnenrollStudent removes the join record and re-fetches only that course's
// roster. On failure the roster is left unchanged, so the student still
// appears enrolled.
func (b *CourseBoard) UnenrollStudent(ctx context.Context, courseID, studentID string) {
	ok, err := b.store.Unenroll(ctx, courseID, studentID)
	if err != nil || !ok {
		b.logger.Warn("failed to unenroll student", zap.String("course_id", courseID), zap.String("student_id", studentID), zap.Error(err))
		return
	}
	b.refreshRoster(ctx, courseID)
}

func (b *CourseBoard) refreshRoster(ctx context.Context, courseID string) {
	students, err := b.store.ListEnrolledStudents(ctx, courseID)
	if err != nil {
		b.logger.Warn("failed to refresh roster", zap.String("course_id", courseID), zap.Error(err))
		return
	}
	b.mu.Lock()
	b.enrolled[courseID] = students
	b.mu.Unlock()
}
