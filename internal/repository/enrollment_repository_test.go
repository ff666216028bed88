package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courseboard/courseboard-api/internal/models"
)

func newEnrollmentRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestEnrollmentRepositoryListStudentsByCourse(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "first_name", "last_name", "age", "created_at", "updated_at"}).
		AddRow("s1", "Ada", "Lovelace", 20, time.Now(), time.Now()).
		AddRow("s2", "Grace", "Hopper", 30, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("WHERE e.course_id = $1")).
		WithArgs("c1").
		WillReturnRows(rows)

	students, err := repo.ListStudentsByCourse(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "Ada", students[0].FirstName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryListCoursesByStudent(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "title", "description", "start_time", "duration_minutes", "created_at", "updated_at"}).
		AddRow("c1", "Algebra", "Numbers", "10:00:00", 45, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("WHERE e.student_id = $1")).
		WithArgs("s1").
		WillReturnRows(rows)

	courses, err := repo.ListCoursesByStudent(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Algebra", courses[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryListAllGroupsByCourse(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	rows := sqlmock.NewRows([]string{"course_id", "id", "first_name", "last_name", "age", "created_at", "updated_at"}).
		AddRow("c1", "s1", "Ada", "Lovelace", 20, time.Now(), time.Now()).
		AddRow("c1", "s2", "Grace", "Hopper", 30, time.Now(), time.Now()).
		AddRow("c2", "s1", "Ada", "Lovelace", 20, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY e.course_id, s.first_name")).
		WillReturnRows(rows)

	grouped, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, grouped, 2)
	assert.Len(t, grouped["c1"], 2)
	assert.Len(t, grouped["c2"], 1)
	assert.Equal(t, "Ada", grouped["c2"][0].FirstName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryExistsPair(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM enrollments WHERE course_id = $1 AND student_id = $2 LIMIT 1")).
		WithArgs("c1", "s1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	exists, err := repo.ExistsPair(context.Background(), "c1", "s1")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM enrollments WHERE course_id = $1 AND student_id = $2 LIMIT 1")).
		WithArgs("c1", "s2").
		WillReturnError(sql.ErrNoRows)

	exists, err = repo.ExistsPair(context.Background(), "c1", "s2")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec("INSERT INTO enrollments").
		WithArgs(sqlmock.AnyArg(), "c1", "s1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	enrollment := &models.Enrollment{CourseID: "c1", StudentID: "s1"}
	require.NoError(t, repo.Create(context.Background(), enrollment))
	assert.NotEmpty(t, enrollment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryDeleteByPair(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM enrollments WHERE course_id = $1 AND student_id = $2")).
		WithArgs("c1", "s1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	removed, err := repo.DeleteByPair(context.Background(), "c1", "s1")
	require.NoError(t, err)
	assert.True(t, removed)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM enrollments WHERE course_id = $1 AND student_id = $2")).
		WithArgs("c1", "s2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	removed, err = repo.DeleteByPair(context.Background(), "c1", "s2")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
