package models

import "time"

// Enrollment captures a student's registration to a course.
type Enrollment struct {
	ID        string    `db:"id" json:"id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	StudentID string    `db:"student_id" json:"student_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// EnrolledStudent is the join-query row pairing an enrollment with its student.
type EnrolledStudent struct {
	CourseID string `db:"course_id" json:"course_id"`
	Student
}

// EnrollmentMap groups enrolled students by course identifier.
type EnrollmentMap map[string][]Student
