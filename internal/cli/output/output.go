// Package output provides colored terminal output helpers for scorectl.
package output

import (
	"encoding/json"
	"os"

	"github.com/fatih/color"
)

var (
	success = color.New(color.FgGreen, color.Bold)
	failure = color.New(color.FgRed, color.Bold)
	notice  = color.New(color.FgCyan)
	caution = color.New(color.FgYellow)
)

// Success prints a green checkmarked line to stdout.
func Success(format string, a ...interface{}) {
	success.Printf("✓ "+format+"\n", a...)
}

// Error prints a red crossmarked line to stderr.
func Error(format string, a ...interface{}) {
	failure.Fprintf(os.Stderr, "✗ "+format+"\n", a...)
}

// Info prints a plain cyan line to stdout.
func Info(format string, a ...interface{}) {
	notice.Printf(format+"\n", a...)
}

// Warn prints a yellow warning line to stdout.
func Warn(format string, a ...interface{}) {
	caution.Printf("⚠ "+format+"\n", a...)
}

// JSON pretty-prints v to stdout.
func JSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
