package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var enrollCmd = &cobra.Command{
	Use:   "enroll <course-id> <student-id>",
	Short: "Enroll a student into a course",
	Long: `Enroll a student into a course. The student's current schedule is checked
for time overlaps first; a clash aborts the enrollment and names the
conflicting course.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		b := newCourseBoard()
		b.Load(context.Background())

		if err := b.EnrollStudent(context.Background(), args[0], args[1]); err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(b.EnrolledStudents(args[0]))
		}
		PrintSuccess(fmt.Sprintf("Enrolled; course now has %d students", len(b.EnrolledStudents(args[0]))))
		return nil
	},
}

var unenrollCmd = &cobra.Command{
	Use:   "unenroll <course-id> <student-id>",
	Short: "Remove a student from a course",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		b := newCourseBoard()
		b.Load(context.Background())
		before := len(b.EnrolledStudents(args[0]))

		b.UnenrollStudent(context.Background(), args[0], args[1])

		if len(b.EnrolledStudents(args[0])) == before {
			PrintError("Unenroll failed; the enrollment was left in place")
			return nil
		}
		PrintSuccess("Student unenrolled")
		return nil
	},
}

var rosterCmd = &cobra.Command{
	Use:   "roster <course-id>",
	Short: "Show the students enrolled in a course",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b := newCourseBoard()
		b.Load(context.Background())
		b.ToggleExpand(args[0])
		students := b.EnrolledStudents(b.ExpandedID())

		if jsonOutput {
			return outputJSON(students)
		}

		if len(students) == 0 {
			PrintInfo("No students enrolled")
			return nil
		}

		PrintHeader("Enrolled students:")
		for _, student := range students {
			PrintInfo(fmt.Sprintf("  %s  %s (age %d)", student.ID, student.FullName(), student.Age))
		}
		return nil
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule <student-id>",
	Short: "Show every course a student is enrolled in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		courses, err := newStore().ListStudentSchedule(context.Background(), args[0])
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(courses)
		}

		if len(courses) == 0 {
			PrintInfo("No enrollments")
			return nil
		}

		PrintHeader("Schedule:")
		for _, course := range courses {
			start := course.StartTime
			if len(start) > 5 {
				start = start[:5]
			}
			PrintInfo(fmt.Sprintf("  %s  %s (%s, %d min)", course.ID, course.Title, start, course.DurationMinutes))
		}
		return nil
	},
}
