package ui

import "fmt"

// ANSI256 color codes for CLI output.
const (
	colorAccent    = 74  // blue
	colorMuted     = 245 // medium gray
	colorPending   = 178 // amber
	colorProcessed = 71  // green
	colorFailed    = 167 // red
)

var noColor bool

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorAccent, s)
}

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorMuted, s)
}

// RenderStatus returns an event status colored by its value: amber for
// pending, green for processed, red for failed.
func RenderStatus(status string) string {
	if noColor {
		return status
	}
	var code int
	switch status {
	case "pending":
		code = colorPending
	case "processed":
		code = colorProcessed
	case "failed":
		code = colorFailed
	default:
		code = colorMuted
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, status)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
