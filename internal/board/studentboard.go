package board

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/courseboard/courseboard-api/internal/models"
)

// StudentBoard owns the student list state. It applies the same optimistic
// patch rules as the course board: prepend on create, in-place replace on
// update, remove only on confirmed delete.
type StudentBoard struct {
	store  Store
	logger *zap.Logger

	mu       sync.Mutex
	students []models.Student
	loadGen  uint64
}

// NewStudentBoard constructs a student board backed by the given store.
func NewStudentBoard(store Store, logger *zap.Logger) *StudentBoard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentBoard{store: store, logger: logger}
}

// Load fetches the student collection. Superseded loads discard their result;
// a failed read is logged and shown as empty.
func (b *StudentBoard) Load(ctx context.Context) {
	b.mu.Lock()
	b.loadGen++
	gen := b.loadGen
	b.mu.Unlock()

	students, err := b.store.ListStudents(ctx)
	if err != nil {
		b.logger.Warn("failed to fetch students", zap.Error(err))
		students = nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.loadGen {
		return
	}
	b.students = students
}

// Students returns a snapshot of the student collection.
func (b *StudentBoard) Students() []models.Student {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Student, len(b.students))
	copy(out, b.students)
	return out
}

// CreateStudent trims names, rejects empty-after-trim input without calling
// the store, and prepends the confirmed record.
func (b *StudentBoard) CreateStudent(ctx context.Context, firstName, lastName string, age int) (*models.Student, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return nil, ErrEmptyStudentFields
	}

	student, err := b.store.CreateStudent(ctx, firstName, lastName, age)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.students = append([]models.Student{*student}, b.students...)
	b.mu.Unlock()
	return student, nil
}

// UpdateStudent replaces the matching student in place on success.
func (b *StudentBoard) UpdateStudent(ctx context.Context, id, firstName, lastName string, age int) (*models.Student, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return nil, ErrEmptyStudentFields
	}

	student, err := b.store.UpdateStudent(ctx, id, firstName, lastName, age)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	for i := range b.students {
		if b.students[i].ID == student.ID {
			b.students[i] = *student
			break
		}
	}
	b.mu.Unlock()
	return student, nil
}

// DeleteStudent removes the student locally only when the store confirms the
// delete; failures are logged and the row stays.
func (b *StudentBoard) DeleteStudent(ctx context.Context, id string) {
	ok, err := b.store.DeleteStudent(ctx, id)
	if err != nil || !ok {
		b.logger.Warn("failed to delete student", zap.String("student_id", id), zap.Error(err))
		return
	}

	b.mu.Lock()
	filtered := b.students[:0]
	for _, student := range b.students {
		if student.ID != id {
			filtered = append(filtered, student)
		}
	}
	b.students = filtered
	b.mu.Unlock()
}
