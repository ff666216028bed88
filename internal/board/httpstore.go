package board

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/courseboard/courseboard-api/internal/models"
)

// HTTPStore implements Store against the courseboard API. It is constructed
// explicitly and injected wherever a board needs data access.
type HTTPStore struct {
	baseURL string
	client  *http.Client
}

// NewHTTPStore builds a store talking to the API at baseURL, e.g.
// "http://localhost:8080/api/v1".
func NewHTTPStore(baseURL string, client *http.Client) *HTTPStore {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPStore{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *HTTPStore) do(ctx context.Context, method, path string, body interface{}, dest interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if env.Error != nil {
		return errors.New(env.Error.Message)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if dest != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, dest); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
	}
	return nil
}

// ListCourses fetches all courses.
func (s *HTTPStore) ListCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := s.do(ctx, http.MethodGet, "/courses", nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// CreateCourse inserts a course and returns the server-confirmed record.
func (s *HTTPStore) CreateCourse(ctx context.Context, title, description, startTime string, durationMinutes int) (*models.Course, error) {
	payload := map[string]interface{}{
		"title":            title,
		"description":      description,
		"start_time":       startTime,
		"duration_minutes": durationMinutes,
	}
	var course models.Course
	if err := s.do(ctx, http.MethodPost, "/courses", payload, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// UpdateCourse updates the mutable course fields.
func (s *HTTPStore) UpdateCourse(ctx context.Context, id, description, startTime string, durationMinutes int) (*models.Course, error) {
	payload := map[string]interface{}{
		"description":      description,
		"start_time":       startTime,
		"duration_minutes": durationMinutes,
	}
	var course models.Course
	if err := s.do(ctx, http.MethodPut, "/courses/"+id, payload, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// DeleteCourse removes a course, reporting success as a flag.
func (s *HTTPStore) DeleteCourse(ctx context.Context, id string) (bool, error) {
	if err := s.do(ctx, http.MethodDelete, "/courses/"+id, nil, nil); err != nil {
		return false, err
	}
	return true, nil
}

// ListStudents fetches all students.
func (s *HTTPStore) ListStudents(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	if err := s.do(ctx, http.MethodGet, "/students", nil, &students); err != nil {
		return nil, err
	}
	return students, nil
}

// CreateStudent inserts a student and returns the server-confirmed record.
func (s *HTTPStore) CreateStudent(ctx context.Context, firstName, lastName string, age int) (*models.Student, error) {
	payload := map[string]interface{}{
		"first_name": firstName,
		"last_name":  lastName,
		"age":        age,
	}
	var student models.Student
	if err := s.do(ctx, http.MethodPost, "/students", payload, &student); err != nil {
		return nil, err
	}
	return &student, nil
}

// UpdateStudent updates a student record.
func (s *HTTPStore) UpdateStudent(ctx context.Context, id, firstName, lastName string, age int) (*models.Student, error) {
	payload := map[string]interface{}{
		"first_name": firstName,
		"last_name":  lastName,
		"age":        age,
	}
	var student models.Student
	if err := s.do(ctx, http.MethodPut, "/students/"+id, payload, &student); err != nil {
		return nil, err
	}
	return &student, nil
}

// DeleteStudent removes a student, reporting success as a flag.
func (s *HTTPStore) DeleteStudent(ctx context.Context, id string) (bool, error) {
	if err := s.do(ctx, http.MethodDelete, "/students/"+id, nil, nil); err != nil {
		return false, err
	}
	return true, nil
}

// ListEnrolledStudents fetches the roster of one course.
func (s *HTTPStore) ListEnrolledStudents(ctx context.Context, courseID string) ([]models.Student, error) {
	var students []models.Student
	if err := s.do(ctx, http.MethodGet, "/courses/"+courseID+"/students", nil, &students); err != nil {
		return nil, err
	}
	return students, nil
}

// ListStudentSchedule fetches every course a student is enrolled in.
func (s *HTTPStore) ListStudentSchedule(ctx context.Context, studentID string) ([]models.Course, error) {
	var courses []models.Course
	if err := s.do(ctx, http.MethodGet, "/students/"+studentID+"/schedule", nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// ListAllEnrollments fetches the bulk courseID -> students map.
func (s *HTTPStore) ListAllEnrollments(ctx context.Context) (models.EnrollmentMap, error) {
	var grouped models.EnrollmentMap
	if err := s.do(ctx, http.MethodGet, "/enrollments", nil, &grouped); err != nil {
		return nil, err
	}
	return grouped, nil
}

// Enroll registers a student into a course.
func (s *HTTPStore) Enroll(ctx context.Context, courseID, studentID string) (bool, error) {
	payload := map[string]string{"student_id": studentID}
	if err := s.do(ctx, http.MethodPost, "/courses/"+courseID+"/students", payload, nil); err != nil {
		return false, err
	}
	return true, nil
}

// Unenroll removes the enrollment join record.
func (s *HTTPStore) Unenroll(ctx context.Context, courseID, studentID string) (bool, error) {
	if err := s.do(ctx, http.MethodDelete, "/courses/"+courseID+"/students/"+studentID, nil, nil); err != nil {
		return false, err
	}
	return true, nil
}
