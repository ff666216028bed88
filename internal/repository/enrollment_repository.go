package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/courseboard/courseboard-api/internal/models"
)

// EnrollmentRepository handles persistence of enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// ListStudentsByCourse returns the students enrolled in a course.
func (r *EnrollmentRepository) ListStudentsByCourse(ctx context.Context, courseID string) ([]models.Student, error) {
	const query = `SELECT s.id, s.first_name, s.last_name, s.age, s.created_at, s.updated_at
        FROM enrollments e
        JOIN students s ON s.id = e.student_id
        WHERE e.course_id = $1
        ORDER BY s.first_name, s.last_name`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, courseID); err != nil {
		return nil, fmt.Errorf("list enrolled students: %w", err)
	}
	return students, nil
}

// ListCoursesByStudent returns the courses a student is enrolled in.
func (r *EnrollmentRepository) ListCoursesByStudent(ctx context.Context, studentID string) ([]models.Course, error) {
	const query = `SELECT c.id, c.title, c.description, c.start_time, c.duration_minutes, c.created_at, c.updated_at
        FROM enrollments e
        JOIN courses c ON c.id = e.course_id
        WHERE e.student_id = $1
        ORDER BY e.created_at`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, studentID); err != nil {
		return nil, fmt.Errorf("list student schedule: %w", err)
	}
	return courses, nil
}

// ListAll returns every enrollment joined to its student, grouped by course.
func (r *EnrollmentRepository) ListAll(ctx context.Context) (models.EnrollmentMap, error) {
	const query = `SELECT e.course_id, s.id, s.first_name, s.last_name, s.age, s.created_at, s.updated_at
        FROM enrollments e
        JOIN students s ON s.id = e.student_id
        ORDER BY e.course_id, s.first_name`
	var rows []models.EnrolledStudent
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	grouped := make(models.EnrollmentMap, len(rows))
	for _, row := range rows {
		grouped[row.CourseID] = append(grouped[row.CourseID], row.Student)
	}
	return grouped, nil
}

// ExistsPair checks if the (course, student) pair is already enrolled.
func (r *EnrollmentRepository) ExistsPair(ctx context.Context, courseID, studentID string) (bool, error) {
	const query = "SELECT 1 FROM enrollments WHERE course_id = $1 AND student_id = $2 LIMIT 1"
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, courseID, studentID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return true, nil
}

// Create persists a new enrollment record. The (course_id, student_id) pair is
// unique at the store; duplicates surface via IsUniqueViolation.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	if enrollment.CreatedAt.IsZero() {
		enrollment.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO enrollments (id, course_id, student_id, created_at)
        VALUES (:id, :course_id, :student_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// DeleteByPair removes the enrollment linking a course and a student. It
// reports whether a record was actually removed.
func (r *EnrollmentRepository) DeleteByPair(ctx context.Context, courseID, studentID string) (bool, error) {
	const query = `DELETE FROM enrollments WHERE course_id = $1 AND student_id = $2`
	result, err := r.db.ExecContext(ctx, query, courseID, studentID)
	if err != nil {
		return false, fmt.Errorf("delete enrollment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete enrollment: %w", err)
	}
	return affected > 0, nil
}
