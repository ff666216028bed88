package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var studentsCmd = &cobra.Command{
	Use:   "students",
	Short: "Manage the student roster",
}

var studentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all students, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b := newStudentBoard()
		b.Load(context.Background())
		students := b.Students()

		if jsonOutput {
			return outputJSON(students)
		}

		if len(students) == 0 {
			PrintInfo("No students found")
			return nil
		}

		PrintHeader("Students:")
		for _, student := range students {
			PrintInfo(fmt.Sprintf("  %s  %s (age %d)", student.ID, student.FullName(), student.Age))
		}
		return nil
	},
}

var (
	studentFirstName string
	studentLastName  string
	studentAge       int
)

var studentsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a student",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b := newStudentBoard()
		student, err := b.CreateStudent(context.Background(), studentFirstName, studentLastName, studentAge)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(student)
		}
		PrintSuccess(fmt.Sprintf("Registered %s (%s)", student.FullName(), student.ID))
		return nil
	},
}

var studentsUpdateCmd = &cobra.Command{
	Use:   "update <student-id>",
	Short: "Update a student's name or age",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b := newStudentBoard()
		student, err := b.UpdateStudent(context.Background(), args[0], studentFirstName, studentLastName, studentAge)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(student)
		}
		PrintSuccess(fmt.Sprintf("Updated %s", student.FullName()))
		return nil
	},
}

var studentsDeleteCmd = &cobra.Command{
	Use:   "delete <student-id>",
	Short: "Delete a student and their enrollments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b := newStudentBoard()
		b.Load(context.Background())
		before := len(b.Students())

		b.DeleteStudent(context.Background(), args[0])

		if len(b.Students()) == before {
			PrintError("Delete failed; the student was left in place")
			return nil
		}
		PrintSuccess("Student deleted")
		return nil
	},
}

func addStudentFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&studentFirstName, "first-name", "", "First name (required)")
	cmd.Flags().StringVar(&studentLastName, "last-name", "", "Last name (required)")
	cmd.Flags().IntVar(&studentAge, "age", 0, "Age (required)")
	_ = cmd.MarkFlagRequired("first-name")
	_ = cmd.MarkFlagRequired("last-name")
	_ = cmd.MarkFlagRequired("age")
}

func init() {
	addStudentFlags(studentsCreateCmd)
	addStudentFlags(studentsUpdateCmd)

	studentsCmd.AddCommand(studentsListCmd)
	studentsCmd.AddCommand(studentsCreateCmd)
	studentsCmd.AddCommand(studentsUpdateCmd)
	studentsCmd.AddCommand(studentsDeleteCmd)
}
