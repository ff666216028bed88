package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/courseboard/courseboard-api/internal/board"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	headerColor  = color.New(color.FgBlue, color.Bold)
)

// newStore builds the HTTP-backed data access collaborator from global flags.
func newStore() *board.HTTPStore {
	return board.NewHTTPStore(apiBase, &http.Client{Timeout: timeout})
}

func newLogger() *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func newCourseBoard() *board.CourseBoard {
	return board.NewCourseBoard(newStore(), newLogger())
}

func newStudentBoard() *board.StudentBoard {
	return board.NewStudentBoard(newStore(), newLogger())
}

// outputJSON outputs a value as JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PrintSuccess prints a success message with a checkmark.
func PrintSuccess(msg string) {
	_, _ = successColor.Printf("✓ %s\n", msg)
}

// PrintError prints an error message to stderr.
func PrintError(msg string) {
	_, _ = errorColor.Fprintf(os.Stderr, "✗ %s\n", msg)
}

// PrintInfo prints an informational message.
func PrintInfo(msg string) {
	fmt.Println(msg)
}

// PrintHeader prints a section header.
func PrintHeader(title string) {
	_, _ = headerColor.Printf("%s\n", title)
}
