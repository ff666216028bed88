package models

import "time"

// Course represents a scheduled course offered on the board.
type Course struct {
	ID              string    `db:"id" json:"id"`
	Title           string    `db:"title" json:"title"`
	Description     string    `db:"description" json:"description"`
	StartTime       string    `db:"start_time" json:"start_time"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// CourseRoster pairs a course with its enrolled students.
type CourseRoster struct {
	Course   Course    `json:"course"`
	Students []Student `json:"students"`
}
