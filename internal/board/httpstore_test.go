package board

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courseboard/courseboard-api/internal/models"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*HTTPStore, func()) {
	server := httptest.NewServer(handler)
	return NewHTTPStore(server.URL+"/api/v1", server.Client()), server.Close
}

func writeEnvelope(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"data": data})
}

func TestHTTPStoreListCourses(t *testing.T) {
	store, cleanup := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/v1/courses", r.URL.Path)
		writeEnvelope(w, http.StatusOK, []models.Course{{ID: "c1", Title: "Algebra"}})
	})
	defer cleanup()

	courses, err := store.ListCourses(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Algebra", courses[0].Title)
}

func TestHTTPStoreCreateCourse(t *testing.T) {
	store, cleanup := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "Algebra", payload["title"])
		assert.Equal(t, "10:00", payload["start_time"])

		writeEnvelope(w, http.StatusCreated, models.Course{ID: "new", Title: "Algebra"})
	})
	defer cleanup()

	course, err := store.CreateCourse(context.Background(), "Algebra", "Numbers", "10:00", 45)
	require.NoError(t, err)
	assert.Equal(t, "new", course.ID)
}

func TestHTTPStoreSurfacesErrorMessage(t *testing.T) {
	store, cleanup := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{
				"code":    "DUPLICATE_TITLE",
				"message": "A course with this title already exists.",
			},
		})
	})
	defer cleanup()

	_, err := store.CreateCourse(context.Background(), "Algebra", "Numbers", "10:00", 45)
	require.Error(t, err)
	assert.Equal(t, "A course with this title already exists.", err.Error())
}

func TestHTTPStoreDeleteCourse(t *testing.T) {
	store, cleanup := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/api/v1/courses/c1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})
	defer cleanup()

	ok, err := store.DeleteCourse(context.Background(), "c1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHTTPStoreEnrollAndUnenroll(t *testing.T) {
	store, cleanup := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			require.Equal(t, "/api/v1/courses/c1/students", r.URL.Path)
			writeEnvelope(w, http.StatusCreated, models.Enrollment{ID: "e1", CourseID: "c1", StudentID: "s1"})
		case http.MethodDelete:
			require.Equal(t, "/api/v1/courses/c1/students/s1", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Fatalf("unexpected method %s", r.Method)
		}
	})
	defer cleanup()

	ok, err := store.Enroll(context.Background(), "c1", "s1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Unenroll(context.Background(), "c1", "s1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHTTPStoreListAllEnrollments(t *testing.T) {
	store, cleanup := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/enrollments", r.URL.Path)
		writeEnvelope(w, http.StatusOK, models.EnrollmentMap{
			"c1": {{ID: "s1", FirstName: "Ada", LastName: "Lovelace"}},
		})
	})
	defer cleanup()

	grouped, err := store.ListAllEnrollments(context.Background())
	require.NoError(t, err)
	require.Len(t, grouped["c1"], 1)
	assert.Equal(t, "Ada", grouped["c1"][0].FirstName)
}
