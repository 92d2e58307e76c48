// Package cli renders equalizer state for the terminal.
package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	primaryColor = lipgloss.Color("#1E90FF")
	boostColor   = lipgloss.Color("#00AA00")
	cutColor     = lipgloss.Color("#D75F00")
	mutedColor   = lipgloss.Color("#888888")
	textColor    = lipgloss.Color("#FFFFFF")
)

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(cutColor)

	KeyStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	ValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true)

	BoostStyle = lipgloss.NewStyle().Foreground(boostColor)
	CutStyle   = lipgloss.NewStyle().Foreground(cutColor)
)

// GainStyle picks the style for a gain value.
func GainStyle(db float64) lipgloss.Style {
	switch {
	case db > 0:
		return BoostStyle
	case db < 0:
		return CutStyle
	default:
		return KeyStyle
	}
}

// PrintVersion prints version information.
func PrintVersion(w io.Writer, version string) {
	fmt.Fprintln(w, TitleStyle.Render("peq"))
	fmt.Fprintf(w, "%s %s\n", KeyStyle.Render("Version:"), ValueStyle.Render(version))
}

// PrintError prints an error message.
func PrintError(w io.Writer, message string) {
	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("Error:"), message)
}

// PrintKeyValue prints one labelled value.
func PrintKeyValue(w io.Writer, key string, value any) {
	fmt.Fprintf(w, "%s %s\n", KeyStyle.Render(key+":"), ValueStyle.Render(fmt.Sprint(value)))
}
