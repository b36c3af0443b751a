package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#DC2626")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#CA8A04"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#16A34A"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Italic(true)
	boldStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
)

// StepStarted prints a styled header when a provisioning step begins.
func StepStarted(w io.Writer, index, total int, name string) {
	fmt.Fprintf(w, "%s %s\n", dimStyle.Render(fmt.Sprintf("[%d/%d]", index, total)), boldStyle.Render(name))
}

// StepDone prints a styled footer when a provisioning step finishes.
func StepDone(w io.Writer, name string) {
	fmt.Fprintf(w, "  %s %s\n", successStyle.Render("OK "), name)
}

// Success prints a green success message.
func Success(w io.Writer, msg string) {
	fmt.Fprintln(w, successStyle.Render(msg))
}

// Warn prints a yellow warning message.
func Warn(w io.Writer, msg string) {
	fmt.Fprintln(w, warnStyle.Render("Warning: "+msg))
}

// Error returns a styled error line.
func Error(msg string) string {
	return errorStyle.Render("Error: " + msg)
}

// Bold renders text in bold.
func Bold(s string) string {
	return boldStyle.Render(s)
}

// Hint renders text in dim italic.
func Hint(s string) string {
	return hintStyle.Render(s)
}

// Dim renders text dimmed.
func Dim(s string) string {
	return dimStyle.Render(s)
}

// CheckOK prints a green check for a passing doctor probe.
func CheckOK(w io.Writer, probe, detail string) {
	fmt.Fprintf(w, "  %s %s: %s\n", successStyle.Render("OK "), probe, detail)
}

// CheckErr prints a red line for a failing doctor probe.
func CheckErr(w io.Writer, probe, message, suggestion string) {
	fmt.Fprintf(w, "  %s %s: %s\n", errorStyle.Render("ERR"), probe, message)
	if suggestion != "" {
		fmt.Fprintf(w, "      %s\n", hintStyle.Render("Hint: "+suggestion))
	}
}
