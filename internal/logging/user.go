package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// User-facing output functions with status glyphs.
// These write to stdout/stderr directly for CLI output,
// separate from the structured debug logging.

var (
	// Stdout receives UserInfo, UserSuccess and Banner output.
	Stdout io.Writer = os.Stdout

	// Stderr receives UserWarning and UserError output.
	Stderr io.Writer = os.Stderr
)

var (
	infoGlyph    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Render("ℹ")
	successGlyph = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("✓")
	warningGlyph = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Render("⚠")
	errorGlyph   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true).Render("✗")
	bannerStyle  = lipgloss.NewStyle().Bold(true)
)

// UserInfo prints an info message to stdout.
func UserInfo(format string, args ...interface{}) {
	fmt.Fprintf(Stdout, infoGlyph+" "+format+"\n", args...)
}

// UserSuccess prints a success message to stdout.
func UserSuccess(format string, args ...interface{}) {
	fmt.Fprintf(Stdout, successGlyph+" "+format+"\n", args...)
}

// UserWarning prints a warning message to stderr.
func UserWarning(format string, args ...interface{}) {
	fmt.Fprintf(Stderr, warningGlyph+" "+format+"\n", args...)
}

// UserError prints an error message to stderr.
func UserError(format string, args ...interface{}) {
	fmt.Fprintf(Stderr, errorGlyph+" "+format+"\n", args...)
}

// Banner prints a section marker such as
// "--- Start of logs from the container: t1".
func Banner(format string, args ...interface{}) {
	fmt.Fprintln(Stdout, bannerStyle.Render("--- "+fmt.Sprintf(format, args...)))
}
