// Package board implements the admin board's view state: the authoritative
// in-memory course and student collections, the per-course roster map, and the
// optimistic patch rules applied on confirmed store responses.
package board

import (
	"context"
	"errors"

	"github.com/courseboard/courseboard-api/internal/models"
)

// Validation errors reported before any store call is made.
var (
	ErrEmptyCourseFields  = errors.New("Title and description cannot be empty or contain only spaces.")
	ErrEmptyStudentFields = errors.New("First and last name cannot be empty or contain only spaces.")
)

// Store is the data-access collaborator backing the board. Mutating calls
// return the server-confirmed record or an error carrying a human-readable
// message; deletes and enrollment toggles report success as a flag.
type Store interface {
	ListCourses(ctx context.Context) ([]models.Course, error)
	CreateCourse(ctx context.Context, title, description, startTime string, durationMinutes int) (*models.Course, error)
	UpdateCourse(ctx context.Context, id, description, startTime string, durationMinutes int) (*models.Course, error)
	DeleteCourse(ctx context.Context, id string) (bool, error)

	ListStudents(ctx context.Context) ([]models.Student, error)
	CreateStudent(ctx context.Context, firstName, lastName string, age int) (*models.Student, error)
	UpdateStudent(ctx context.Context, id, firstName, lastName string, age int) (*models.Student, error)
	DeleteStudent(ctx context.Context, id string) (bool, error)

	ListEnrolledStudents(ctx context.Context, courseID string) ([]models.Student, error)
	ListStudentSchedule(ctx context.Context, studentID string) ([]models.Course, error)
	ListAllEnrollments(ctx context.Context) (models.EnrollmentMap, error)
	Enroll(ctx context.Context, courseID, studentID string) (bool, error)
	Unenroll(ctx context.Context, courseID, studentID string) (bool, error)
}
