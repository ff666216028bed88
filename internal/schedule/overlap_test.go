package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courseboard/courseboard-api/internal/models"
)

func TestTimeToMinutes(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"00:00", 0},
		{"09:00", 540},
		{"10:15", 615},
		{"23:59", 1439},
		{"10:30:00", 630},
	}
	for _, tc := range cases {
		got, err := TimeToMinutes(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestTimeToMinutesInvalid(t *testing.T) {
	for _, in := range []string{"", "10", "25:00", "10:61", "ab:cd"} {
		_, err := TimeToMinutes(in)
		assert.Error(t, err, in)
	}
}

func TestFindConflictOverlapping(t *testing.T) {
	existing := []models.Course{
		{ID: "y", Title: "Yoga", StartTime: "10:15", DurationMinutes: 30},
	}

	conflict, err := FindConflict("10:00", 30, existing)
	require.NoError(t, err)
	require.NotNil(t, conflict)
	assert.Equal(t, "y", conflict.ID)
}

func TestFindConflictTouchingIntervals(t *testing.T) {
	// Yoga runs 10:15-10:45; a course starting exactly at 10:45 must not conflict.
	existing := []models.Course{
		{ID: "y", Title: "Yoga", StartTime: "10:15", DurationMinutes: 30},
	}

	conflict, err := FindConflict("10:30", 30, existing)
	require.NoError(t, err)
	require.NotNil(t, conflict, "10:30 still overlaps 10:15-10:45")

	conflict, err = FindConflict("10:45", 30, existing)
	require.NoError(t, err)
	assert.Nil(t, conflict)

	conflict, err = FindConflict("09:45", 30, existing)
	require.NoError(t, err)
	assert.Nil(t, conflict, "course ending at 10:15 touches but does not overlap")
}

func TestFindConflictSymmetric(t *testing.T) {
	// A [60,105) vs B [50,70): overlap holds regardless of which is the candidate.
	a := models.Course{ID: "a", Title: "A", StartTime: "01:00", DurationMinutes: 45}
	b := models.Course{ID: "b", Title: "B", StartTime: "00:50", DurationMinutes: 20}

	conflict, err := FindConflict(a.StartTime, a.DurationMinutes, []models.Course{b})
	require.NoError(t, err)
	require.NotNil(t, conflict)
	assert.Equal(t, "b", conflict.ID)

	conflict, err = FindConflict(b.StartTime, b.DurationMinutes, []models.Course{a})
	require.NoError(t, err)
	require.NotNil(t, conflict)
	assert.Equal(t, "a", conflict.ID)
}

func TestFindConflictFirstWins(t *testing.T) {
	existing := []models.Course{
		{ID: "far", Title: "Far", StartTime: "09:50", DurationMinutes: 120},
		{ID: "tight", Title: "Tight", StartTime: "10:00", DurationMinutes: 30},
	}

	conflict, err := FindConflict("10:00", 30, existing)
	require.NoError(t, err)
	require.NotNil(t, conflict)
	assert.Equal(t, "far", conflict.ID, "first conflicting course in iteration order is reported")
}

func TestConflictErrorMessage(t *testing.T) {
	err := &ConflictError{Course: models.Course{Title: "Yoga", StartTime: "10:15:00", DurationMinutes: 30}}
	assert.Equal(t, `Conflict: This overlaps with "Yoga" (10:15 - 30 min).`, err.Error())
}
