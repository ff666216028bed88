package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "Manage the course catalog",
}

var coursesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all courses, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b := newCourseBoard()
		b.Load(context.Background())
		courses := b.Courses()

		if jsonOutput {
			return outputJSON(courses)
		}

		if len(courses) == 0 {
			PrintInfo("No courses found")
			return nil
		}

		PrintHeader("Courses:")
		for _, course := range courses {
			start := course.StartTime
			if len(start) > 5 {
				start = start[:5]
			}
			PrintInfo(fmt.Sprintf("  %s  %s (%s, %d min)", course.ID, course.Title, start, course.DurationMinutes))
			enrolled := b.EnrolledStudents(course.ID)
			if len(enrolled) > 0 {
				PrintInfo(fmt.Sprintf("    %d enrolled", len(enrolled)))
			}
		}
		return nil
	},
}

var (
	courseTitle       string
	courseDescription string
	courseStart       string
	courseDuration    int
)

var coursesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a course",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b := newCourseBoard()
		course, err := b.CreateCourse(context.Background(), courseTitle, courseDescription, courseStart, courseDuration)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(course)
		}
		PrintSuccess(fmt.Sprintf("Created course %q (%s)", course.Title, course.ID))
		return nil
	},
}

var coursesUpdateCmd = &cobra.Command{
	Use:   "update <course-id>",
	Short: "Update a course's description, start time or duration",
	Long:  `Update a course. The title is immutable and cannot be changed here.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b := newCourseBoard()
		course, err := b.UpdateCourse(context.Background(), args[0], courseDescription, courseStart, courseDuration)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(course)
		}
		PrintSuccess(fmt.Sprintf("Updated course %q", course.Title))
		return nil
	},
}

var coursesDeleteCmd = &cobra.Command{
	Use:   "delete <course-id>",
	Short: "Delete a course and its enrollments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b := newCourseBoard()
		b.Load(context.Background())
		before := len(b.Courses())

		b.DeleteCourse(context.Background(), args[0])

		if len(b.Courses()) == before {
			PrintError("Delete failed; the course was left in place")
			return nil
		}
		PrintSuccess("Course deleted")
		return nil
	},
}

func init() {
	coursesCreateCmd.Flags().StringVar(&courseTitle, "title", "", "Course title (required, immutable)")
	coursesCreateCmd.Flags().StringVar(&courseDescription, "description", "", "Course description (required)")
	coursesCreateCmd.Flags().StringVar(&courseStart, "start", "", "Start time as HH:MM (required)")
	coursesCreateCmd.Flags().IntVar(&courseDuration, "duration", 45, "Duration in minutes")
	_ = coursesCreateCmd.MarkFlagRequired("title")
	_ = coursesCreateCmd.MarkFlagRequired("description")
	_ = coursesCreateCmd.MarkFlagRequired("start")

	coursesUpdateCmd.Flags().StringVar(&courseDescription, "description", "", "Course description (required)")
	coursesUpdateCmd.Flags().StringVar(&courseStart, "start", "", "Start time as HH:MM (required)")
	coursesUpdateCmd.Flags().IntVar(&courseDuration, "duration", 45, "Duration in minutes")
	_ = coursesUpdateCmd.MarkFlagRequired("description")
	_ = coursesUpdateCmd.MarkFlagRequired("start")

	coursesCmd.AddCommand(coursesListCmd)
	coursesCmd.AddCommand(coursesCreateCmd)
	coursesCmd.AddCommand(coursesUpdateCmd)
	coursesCmd.AddCommand(coursesDeleteCmd)
}
