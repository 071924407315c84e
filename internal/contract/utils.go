package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/Ponnammaah123/test-agent/schema"
)

// Color variables for console output.
var (
	AddedColor    = color.New(color.FgGreen)  // new files
	ModifiedColor = color.New(color.FgYellow) // changed files
	DeletedColor  = color.New(color.FgRed)    // removed files
)

// GetStatusLabel returns the display label for a file status, colored when
// requested.
func GetStatusLabel(status schema.FileStatus, useColors bool) string {
	text := string(status)
	if !useColors {
		return text
	}
	switch status {
	case schema.StatusAdded:
		return AddedColor.Sprint(text)
	case schema.StatusModified:
		return ModifiedColor.Sprint(text)
	case schema.StatusDeleted:
		return DeletedColor.Sprint(text)
	default:
		return text
	}
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to ensure there's space for both the "..." prefix and
// at least one character of content.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// ParseBoolString parses human-friendly boolean strings like "yes"/"no"
// alongside the standard strconv forms. An empty string means true.
func ParseBoolString(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "yes", "on":
		return true, nil
	case "no", "off":
		return false, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("expected a boolean value, received %q", value)
	}
	return parsed, nil
}

// ParseFloatString parses a float from a string, returning fallback when the
// string is empty.
func ParseFloatString(value string, fallback float64) (float64, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("expected a numeric value, received %q", value)
	}
	return parsed, nil
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetSnapshotDBFilePath returns the path to the SQLite DB file for snapshot
// storage.
func GetSnapshotDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".testagent_cache.db"
	}
	return filepath.Join(homeDir, ".testagent_cache.db")
}
