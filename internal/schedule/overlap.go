// Package schedule implements the time-of-day overlap test used to keep a
// student from being double-booked into conflicting courses.
package schedule

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/courseboard/courseboard-api/internal/models"
)

// TimeToMinutes converts a "HH:MM" clock value to minutes since midnight.
func TimeToMinutes(clock string) (int, error) {
	parts := strings.SplitN(clock, ":", 3)
	if len(parts) < 2 {
		return 0, fmt.Errorf("invalid time %q", clock)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", clock)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", clock)
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid time %q", clock)
	}
	return hours*60 + minutes, nil
}

// ConflictError reports the first scheduled course overlapping the candidate.
type ConflictError struct {
	Course models.Course
}

// Error formats the conflict naming the clashing course, its start time and duration.
func (e *ConflictError) Error() string {
	start := e.Course.StartTime
	if len(start) > 5 {
		start = start[:5]
	}
	return fmt.Sprintf("Conflict: This overlaps with %q (%s - %d min).", e.Course.Title, start, e.Course.DurationMinutes)
}

// FindConflict scans the student's schedule for a course whose time interval
// overlaps the candidate [start, start+duration) window. Intervals are half-open:
// a course ending exactly when another begins does not conflict. The first
// overlapping course in iteration order is returned; conflicts are not aggregated.
func FindConflict(startTime string, durationMinutes int, enrolled []models.Course) (*models.Course, error) {
	newStart, err := TimeToMinutes(startTime)
	if err != nil {
		return nil, err
	}
	newEnd := newStart + durationMinutes

	for i := range enrolled {
		existingStart, err := TimeToMinutes(enrolled[i].StartTime)
		if err != nil {
			return nil, err
		}
		existingEnd := existingStart + enrolled[i].DurationMinutes
		if newStart < existingEnd && existingStart < newEnd {
			return &enrolled[i], nil
		}
	}
	return nil, nil
}
