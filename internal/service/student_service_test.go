package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/courseboard/courseboard-api/internal/models"
	appErrors "github.com/courseboard/courseboard-api/pkg/errors"
)

type mockStudentRepo struct {
	items      map[string]*models.Student
	listResult []models.Student
	listErr    error
	created    int
	deleted    []string
}

func (m *mockStudentRepo) List(ctx context.Context) ([]models.Student, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.listResult, nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if student, ok := m.items[id]; ok {
		cp := *student
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	if m.items == nil {
		m.items = make(map[string]*models.Student)
	}
	if student.ID == "" {
		student.ID = "generated"
	}
	m.created++
	cp := *student
	m.items[student.ID] = &cp
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student) error {
	if m.items == nil {
		m.items = make(map[string]*models.Student)
	}
	cp := *student
	m.items[student.ID] = &cp
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	delete(m.items, id)
	return nil
}

func TestStudentServiceCreateTrimsNames(t *testing.T) {
	repo := &mockStudentRepo{}
	service := NewStudentService(repo, nil, nil, validator.New(), zap.NewNop())

	student, err := service.Create(context.Background(), StudentRequest{
		FirstName: "  Ada ",
		LastName:  " Lovelace  ",
		Age:       20,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", student.FirstName)
	assert.Equal(t, "Lovelace", student.LastName)
	assert.Len(t, repo.items, 1)
}

func TestStudentServiceCreateRejectsBlankNames(t *testing.T) {
	repo := &mockStudentRepo{}
	service := NewStudentService(repo, nil, nil, validator.New(), zap.NewNop())

	_, err := service.Create(context.Background(), StudentRequest{
		FirstName: "   ",
		LastName:  "Lovelace",
		Age:       20,
	})
	require.Error(t, err)
	assert.Equal(t, "First and last name cannot be empty or contain only spaces.", err.Error())
	assert.Zero(t, repo.created)
}

func TestStudentServiceCreateRejectsAgeOutOfRange(t *testing.T) {
	repo := &mockStudentRepo{}
	service := NewStudentService(repo, nil, nil, validator.New(), zap.NewNop())

	for _, age := range []int{0, -1, 101} {
		_, err := service.Create(context.Background(), StudentRequest{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Age:       age,
		})
		require.Error(t, err, "age %d", age)
	}
	assert.Zero(t, repo.created)
}

func TestStudentServiceUpdate(t *testing.T) {
	repo := &mockStudentRepo{
		items: map[string]*models.Student{
			"s1": {ID: "s1", FirstName: "Ada", LastName: "Lovelace", Age: 20},
		},
	}
	service := NewStudentService(repo, nil, nil, validator.New(), zap.NewNop())

	updated, err := service.Update(context.Background(), "s1", StudentRequest{
		FirstName: "Grace",
		LastName:  "Hopper",
		Age:       30,
	})
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", updated.FullName())
	assert.Equal(t, 30, updated.Age)
}

func TestStudentServiceUpdateNotFound(t *testing.T) {
	repo := &mockStudentRepo{}
	service := NewStudentService(repo, nil, nil, validator.New(), zap.NewNop())

	_, err := service.Update(context.Background(), "missing", StudentRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Age:       20,
	})
	require.Error(t, err)

	var typed *appErrors.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, appErrors.ErrNotFound.Code, typed.Code)
}

func TestStudentServiceDeleteInvalidatesAndPublishes(t *testing.T) {
	repo := &mockStudentRepo{
		items: map[string]*models.Student{
			"s1": {ID: "s1", FirstName: "Ada", LastName: "Lovelace", Age: 20},
		},
	}
	invalidator := &mockInvalidator{}
	publisher := &mockPublisher{}
	service := NewStudentService(repo, invalidator, publisher, validator.New(), zap.NewNop())

	require.NoError(t, service.Delete(context.Background(), "s1"))
	assert.Equal(t, []string{"s1"}, repo.deleted)
	assert.Equal(t, 1, invalidator.calls)
	assert.Equal(t, []string{"student.deleted"}, publisher.events)
}
