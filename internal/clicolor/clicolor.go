// Package clicolor centralizes the ANSI coloring the cmd/ binaries use
// for warnings and errors. Grounded on the teacher's cli/colors.go
// (ShouldUseColor/Colorize shape, NO_COLOR + TTY detection), backed by
// github.com/fatih/color instead of the teacher's hand-rolled escape
// constants.
package clicolor

import (
	"os"

	"github.com/fatih/color"
)

var (
	warnColor  = color.New(color.FgYellow)
	errorColor = color.New(color.FgRed, color.Bold)
	okColor    = color.New(color.FgGreen)
)

// ShouldUseColor reports whether output should be colorized: respects
// an explicit --no-color flag, the NO_COLOR environment variable, and
// falls back to whether stdout is a terminal.
func ShouldUseColor(noColorFlag bool) bool {
	if noColorFlag {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// Apply sets color.NoColor for the whole process based on
// ShouldUseColor, so every color.Color created afterward respects it
// without having to be threaded through individually.
func Apply(noColorFlag bool) {
	color.NoColor = !ShouldUseColor(noColorFlag)
}

func Warn(format string, a ...interface{}) string  { return warnColor.Sprintf(format, a...) }
func Error(format string, a ...interface{}) string { return errorColor.Sprintf(format, a...) }
func OK(format string, a ...interface{}) string    { return okColor.Sprintf(format, a...) }
