// Package cli implements the boardctl command tree. Commands drive the same
// board state machine the admin UI uses, talking to a running courseboard API.
package cli

import (
	"time"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	apiBase    string
	jsonOutput bool
	timeout    time.Duration
)

// rootCmd is the root command for boardctl.
var rootCmd = &cobra.Command{
	Use:     "boardctl",
	Version: "dev",
	Short:   "Courseboard admin CLI",
	Long: `boardctl administers courses, students and enrollments against a running
courseboard API. Mutations follow the board rules: records are only added,
replaced or removed locally once the API confirms them, and enrollments are
checked for schedule overlaps before they are attempted.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// SetVersion overrides the reported version, typically from build metadata.
func SetVersion(v string) {
	if v == "" {
		return
	}
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiBase, "api", "http://localhost:8080/api/v1", "Base URL of the courseboard API")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 15*time.Second, "HTTP request timeout")

	rootCmd.AddCommand(coursesCmd)
	rootCmd.AddCommand(studentsCmd)
	rootCmd.AddCommand(enrollCmd)
	rootCmd.AddCommand(unenrollCmd)
	rootCmd.AddCommand(rosterCmd)
	rootCmd.AddCommand(scheduleCmd)
}
