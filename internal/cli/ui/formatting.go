package ui

import (
	"fmt"
	"io"
	"time"
)

// FormatStatus returns the icon, color and label for a run or scenario
// status.
func FormatStatus(status string) (icon, color, text string) {
	switch status {
	case "passed":
		return IconCheckmark, ColorGreen, "passed"
	case "failed":
		return IconCross, ColorRed, "failed"
	case "running":
		return IconPlay, ColorCyan, "running"
	default:
		return IconClock, ColorYellow, status
	}
}

// FormatDuration rounds to what a person reads in a summary.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	case d < time.Minute:
		return d.Round(100 * time.Millisecond).String()
	default:
		return d.Round(time.Second).String()
	}
}

// PrintRunHeader prints the settings a run starts with.
func PrintRunHeader(w io.Writer, env, browser string, headless bool, workers, retries int) {
	mode := "headless"
	if !headless {
		mode = "headed"
	}
	fmt.Fprintln(w, ColorBold+IconPlay+" uiharness run"+ColorReset)
	fmt.Fprintf(w, ColorCyan+IconGlobe+" env:"+ColorReset+" %s  "+ColorCyan+"browser:"+ColorReset+" %s (%s)\n", env, browser, mode)
	fmt.Fprintf(w, ColorGray+"workers %d, retries %d"+ColorReset+"\n\n", workers, retries)
}
