package terminal

import "fmt"

// Color represents ANSI terminal colors.
type Color int

// Color constants
const (
	ColorNone Color = iota
	ColorGreen
	ColorYellow
	ColorRed
	ColorBlue
	ColorGray
)

// ANSI color codes
const (
	ansiReset  = "\033[0m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiRed    = "\033[31m"
	ansiBlue   = "\033[34m"
	ansiGray   = "\033[90m"
)

// Colorize applies ANSI color to text. If NoColor is true, returns text unchanged.
func (c Config) Colorize(text string, color Color) string {
	if c.NoColor {
		return text
	}

	var code string

	switch color {
	case ColorGreen:
		code = ansiGreen
	case ColorYellow:
		code = ansiYellow
	case ColorRed:
		code = ansiRed
	case ColorBlue:
		code = ansiBlue
	case ColorGray:
		code = ansiGray
	default:
		return text
	}

	return fmt.Sprintf("%s%s%s", code, text, ansiReset)
}
