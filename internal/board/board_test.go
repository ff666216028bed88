package board

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courseboard/courseboard-api/internal/models"
	"github.com/courseboard/courseboard-api/internal/schedule"
)

type mockStore struct {
	mu sync.Mutex

	courses     []models.Course
	students    []models.Student
	enrollments models.EnrollmentMap
	roster      map[string][]models.Student
	schedule    map[string][]models.Course

	listCoursesErr error
	createCourse   *models.Course
	createErr      error
	updateCourse   *models.Course
	updateErr      error
	deleteOK       bool
	deleteErr      error
	enrollOK       bool
	enrollErr      error
	unenrollOK     bool
	unenrollErr    error

	listCoursesCalls     int
	rosterCalls          []string
	listEnrollmentsCalls int
	createCalls          int

	listCoursesHook func()
}

func (m *mockStore) ListCourses(ctx context.Context) ([]models.Course, error) {
	m.mu.Lock()
	m.listCoursesCalls++
	hook := m.listCoursesHook
	m.mu.Unlock()
	if hook != nil {
		hook()
	}
	if m.listCoursesErr != nil {
		return nil, m.listCoursesErr
	}
	return m.courses, nil
}

func (m *mockStore) CreateCourse(ctx context.Context, title, description, startTime string, durationMinutes int) (*models.Course, error) {
	m.mu.Lock()
	m.createCalls++
	m.mu.Unlock()
	return m.createCourse, m.createErr
}

func (m *mockStore) UpdateCourse(ctx context.Context, id, description, startTime string, durationMinutes int) (*models.Course, error) {
	return m.updateCourse, m.updateErr
}

func (m *mockStore) DeleteCourse(ctx context.Context, id string) (bool, error) {
	return m.deleteOK, m.deleteErr
}

func (m *mockStore) ListStudents(ctx context.Context) ([]models.Student, error) {
	return m.students, nil
}

func (m *mockStore) CreateStudent(ctx context.Context, firstName, lastName string, age int) (*models.Student, error) {
	m.mu.Lock()
	m.createCalls++
	m.mu.Unlock()
	return &models.Student{ID: "new", FirstName: firstName, LastName: lastName, Age: age}, nil
}

func (m *mockStore) UpdateStudent(ctx context.Context, id, firstName, lastName string, age int) (*models.Student, error) {
	return &models.Student{ID: id, FirstName: firstName, LastName: lastName, Age: age}, nil
}

func (m *mockStore) DeleteStudent(ctx context.Context, id string) (bool, error) {
	return m.deleteOK, m.deleteErr
}

func (m *mockStore) ListEnrolledStudents(ctx context.Context, courseID string) ([]models.Student, error) {
	m.mu.Lock()
	m.rosterCalls = append(m.rosterCalls, courseID)
	m.mu.Unlock()
	return m.roster[courseID], nil
}

func (m *mockStore) ListStudentSchedule(ctx context.Context, studentID string) ([]models.Course, error) {
	return m.schedule[studentID], nil
}

func (m *mockStore) ListAllEnrollments(ctx context.Context) (models.EnrollmentMap, error) {
	m.mu.Lock()
	m.listEnrollmentsCalls++
	m.mu.Unlock()
	return m.enrollments, nil
}

func (m *mockStore) Enroll(ctx context.Context, courseID, studentID string) (bool, error) {
	return m.enrollOK, m.enrollErr
}

func (m *mockStore) Unenroll(ctx context.Context, courseID, studentID string) (bool, error) {
	return m.unenrollOK, m.unenrollErr
}

func TestCourseBoard_Load(t *testing.T) {
	store := &mockStore{
		courses: []models.Course{{ID: "c1", Title: "Algebra"}},
		enrollments: models.EnrollmentMap{
			"c1": {{ID: "s1", FirstName: "Ada", LastName: "Lovelace"}},
		},
	}
	board := NewCourseBoard(store, nil)

	board.Load(context.Background())

	courses := board.Courses()
	require.Len(t, courses, 1)
	assert.Equal(t, "Algebra", courses[0].Title)
	assert.Len(t, board.EnrolledStudents("c1"), 1)
}

func TestCourseBoard_LoadFailureLeavesEmptyState(t *testing.T) {
	store := &mockStore{listCoursesErr: errors.New("boom")}
	board := NewCourseBoard(store, nil)

	board.Load(context.Background())

	assert.Empty(t, board.Courses())
}

func TestCourseBoard_SupersededLoadDiscardsResult(t *testing.T) {
	first := &mockStore{courses: []models.Course{{ID: "stale", Title: "Stale"}}}
	board := NewCourseBoard(first, nil)

	// The first load is in flight when a second finishes; its late result
	// must not clobber the newer state.
	first.listCoursesHook = func() {
		first.listCoursesHook = nil
		board.mu.Lock()
		board.loadGen++
		board.courses = []models.Course{{ID: "fresh", Title: "Fresh"}}
		board.mu.Unlock()
	}

	board.Load(context.Background())

	courses := board.Courses()
	require.Len(t, courses, 1)
	assert.Equal(t, "fresh", courses[0].ID)
}

func TestCourseBoard_CreatePrepends(t *testing.T) {
	store := &mockStore{
		courses:      []models.Course{{ID: "old", Title: "History"}},
		createCourse: &models.Course{ID: "new", Title: "Algebra"},
	}
	board := NewCourseBoard(store, nil)
	board.Load(context.Background())

	created, err := board.CreateCourse(context.Background(), "  Algebra  ", "Numbers", "10:00", 45)

	require.NoError(t, err)
	assert.Equal(t, "new", created.ID)
	courses := board.Courses()
	require.Len(t, courses, 2)
	assert.Equal(t, "new", courses[0].ID)
	assert.Equal(t, "old", courses[1].ID)
}

func TestCourseBoard_CreateRejectsBlankFieldsWithoutStoreCall(t *testing.T) {
	store := &mockStore{}
	board := NewCourseBoard(store, nil)

	_, err := board.CreateCourse(context.Background(), "   ", "desc", "10:00", 45)

	assert.ErrorIs(t, err, ErrEmptyCourseFields)
	assert.Zero(t, store.createCalls)
}

func TestCourseBoard_UpdateReplacesInPlace(t *testing.T) {
	store := &mockStore{
		courses: []models.Course{
			{ID: "c1", Title: "Algebra"},
			{ID: "c2", Title: "History", Description: "old"},
			{ID: "c3", Title: "Biology"},
		},
		updateCourse: &models.Course{ID: "c2", Title: "History", Description: "new"},
	}
	board := NewCourseBoard(store, nil)
	board.Load(context.Background())

	_, err := board.UpdateCourse(context.Background(), "c2", "new", "11:00", 60)

	require.NoError(t, err)
	courses := board.Courses()
	require.Len(t, courses, 3)
	assert.Equal(t, "c2", courses[1].ID)
	assert.Equal(t, "new", courses[1].Description)
}

func TestCourseBoard_DeleteRemovesOnlyOnSuccess(t *testing.T) {
	store := &mockStore{
		courses:  []models.Course{{ID: "c1"}, {ID: "c2"}},
		deleteOK: true,
	}
	board := NewCourseBoard(store, nil)
	board.Load(context.Background())
	board.ToggleExpand("c1")

	board.DeleteCourse(context.Background(), "c1")

	courses := board.Courses()
	require.Len(t, courses, 1)
	assert.Equal(t, "c2", courses[0].ID)
	assert.Empty(t, board.ExpandedID())
}

func TestCourseBoard_DeleteFailureLeavesRow(t *testing.T) {
	store := &mockStore{
		courses:   []models.Course{{ID: "c1"}},
		deleteErr: errors.New("db down"),
	}
	board := NewCourseBoard(store, nil)
	board.Load(context.Background())

	board.DeleteCourse(context.Background(), "c1")

	assert.Len(t, board.Courses(), 1)
}

func TestCourseBoard_SingleExpansion(t *testing.T) {
	board := NewCourseBoard(&mockStore{}, nil)

	board.ToggleExpand("c1")
	assert.Equal(t, "c1", board.ExpandedID())

	board.ToggleExpand("c2")
	assert.Equal(t, "c2", board.ExpandedID())

	board.ToggleExpand("c2")
	assert.Empty(t, board.ExpandedID())
}

func TestCourseBoard_EnrollRefetchesOnlyRoster(t *testing.T) {
	store := &mockStore{
		courses:  []models.Course{{ID: "c1", Title: "Algebra", StartTime: "10:00:00", DurationMinutes: 30}},
		enrollOK: true,
		roster: map[string][]models.Student{
			"c1": {{ID: "s1", FirstName: "Ada"}},
		},
	}
	board := NewCourseBoard(store, nil)
	board.Load(context.Background())

	err := board.EnrollStudent(context.Background(), "c1", "s1")

	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, store.rosterCalls)
	assert.Equal(t, 1, store.listCoursesCalls)
	assert.Equal(t, 1, store.listEnrollmentsCalls)
	assert.Len(t, board.EnrolledStudents("c1"), 1)
}

func TestCourseBoard_EnrollRejectsOverlap(t *testing.T) {
	store := &mockStore{
		courses: []models.Course{{ID: "c1", Title: "Algebra", StartTime: "10:15:00", DurationMinutes: 30}},
		schedule: map[string][]models.Course{
			"s1": {{ID: "c2", Title: "History", StartTime: "10:00:00", DurationMinutes: 30}},
		},
	}
	board := NewCourseBoard(store, nil)
	board.Load(context.Background())

	err := board.EnrollStudent(context.Background(), "c1", "s1")

	require.Error(t, err)
	var conflict *schedule.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "History", conflict.Course.Title)
	assert.Empty(t, store.rosterCalls)
}

func TestCourseBoard_EnrollAllowsTouchingIntervals(t *testing.T) {
	store := &mockStore{
		courses:  []models.Course{{ID: "c1", Title: "Algebra", StartTime: "10:30:00", DurationMinutes: 30}},
		enrollOK: true,
		schedule: map[string][]models.Course{
			"s1": {{ID: "c2", Title: "History", StartTime: "10:00:00", DurationMinutes: 30}},
		},
	}
	board := NewCourseBoard(store, nil)
	board.Load(context.Background())

	assert.NoError(t, board.EnrollStudent(context.Background(), "c1", "s1"))
}

func TestCourseBoard_EnrollStoreFailure(t *testing.T) {
	store := &mockStore{
		courses:   []models.Course{{ID: "c1", Title: "Algebra", StartTime: "10:00:00", DurationMinutes: 30}},
		enrollErr: errors.New("db down"),
	}
	board := NewCourseBoard(store, nil)
	board.Load(context.Background())

	err := board.EnrollStudent(context.Background(), "c1", "s1")

	require.Error(t, err)
	assert.Equal(t, "Failed to enroll student. Please try again.", err.Error())
	assert.Empty(t, store.rosterCalls)
}

func TestCourseBoard_UnenrollFailureLeavesRoster(t *testing.T) {
	store := &mockStore{
		courses:     []models.Course{{ID: "c1"}},
		enrollments: models.EnrollmentMap{"c1": {{ID: "s1"}}},
		unenrollErr: errors.New("db down"),
	}
	board := NewCourseBoard(store, nil)
	board.Load(context.Background())

	board.UnenrollStudent(context.Background(), "c1", "s1")

	assert.Len(t, board.EnrolledStudents("c1"), 1)
	assert.Empty(t, store.rosterCalls)
}

func TestStudentBoard_CreatePrepends(t *testing.T) {
	store := &mockStore{students: []models.Student{{ID: "old"}}}
	board := NewStudentBoard(store, nil)
	board.Load(context.Background())

	created, err := board.CreateStudent(context.Background(), "  Ada ", " Lovelace ", 20)

	require.NoError(t, err)
	assert.Equal(t, "Ada", created.FirstName)
	students := board.Students()
	require.Len(t, students, 2)
	assert.Equal(t, "new", students[0].ID)
}

func TestStudentBoard_CreateRejectsBlankNames(t *testing.T) {
	store := &mockStore{}
	board := NewStudentBoard(store, nil)

	_, err := board.CreateStudent(context.Background(), " ", "Lovelace", 20)

	assert.ErrorIs(t, err, ErrEmptyStudentFields)
	assert.Zero(t, store.createCalls)
}

func TestStudentBoard_UpdateReplacesInPlace(t *testing.T) {
	store := &mockStore{students: []models.Student{{ID: "s1", FirstName: "Ada"}, {ID: "s2"}}}
	board := NewStudentBoard(store, nil)
	board.Load(context.Background())

	_, err := board.UpdateStudent(context.Background(), "s1", "Grace", "Hopper", 30)

	require.NoError(t, err)
	students := board.Students()
	assert.Equal(t, "Grace", students[0].FirstName)
	assert.Equal(t, "s2", students[1].ID)
}

func TestStudentBoard_DeleteFailureLeavesRow(t *testing.T) {
	store := &mockStore{
		students:  []models.Student{{ID: "s1"}},
		deleteErr: errors.New("db down"),
	}
	board := NewStudentBoard(store, nil)
	board.Load(context.Background())

	board.DeleteStudent(context.Background(), "s1")

	assert.Len(t, board.Students(), 1)
}
