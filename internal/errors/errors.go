package errors

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/julianstephens/habitual/internal/logger"
)

// PartialError reports an operation that finished but could not persist
// every item it touched.
type PartialError struct {
	Op     string
	Failed []string
}

func (e *PartialError) Error() string {
	failed := append([]string(nil), e.Failed...)
	sort.Strings(failed)
	return fmt.Sprintf("%s: %d item(s) not saved: %s", e.Op, len(failed), strings.Join(failed, ", "))
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Warn prints a non-fatal error to stderr and logs it
func Warn(err error) {
	if err == nil {
		return
	}
	logger.Warn("Command completed with errors", "error", err)
	fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
