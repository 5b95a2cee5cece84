package logging

import (
	"log/slog"

	"github.com/fatih/color"
)

var (
	debugColor = newForcedColor(color.FgHiBlack)
	infoColor  = newForcedColor(color.FgGreen)
	warnColor  = newForcedColor(color.FgYellow)
	errorColor = newForcedColor(color.FgRed, color.Bold)
)

// newForcedColor bypasses fatih/color's global TTY sniffing; whether the label
// is colored is decided per handler via Options.Color, not per process.
func newForcedColor(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	c.EnableColor()
	return c
}

func levelLabel(level slog.Level, colorize bool) string {
	label, painter := "DEBUG", debugColor
	switch {
	case level >= slog.LevelError:
		label, painter = "ERROR", errorColor
	case level >= slog.LevelWarn:
		label, painter = "WARNING", warnColor
	case level >= slog.LevelInfo:
		label, painter = "INFO", infoColor
	}
	if !colorize {
		return label
	}
	return painter.Sprint(label)
}
