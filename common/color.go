package common

const (
	ColorReset   = "\033[0m"
	ColorRed     = "\033[31m"
	ColorGreen   = "\033[32m"
	ColorYellow  = "\033[33m"
	ColorCyan    = "\033[36m"
	ColorGray    = "\033[90m"
	ColorMagenta = "\033[35m"
)

// Colorize wraps s in color when enabled is true.
func Colorize(enabled bool, color, s string) string {
	if !enabled {
		return s
	}
	return color + s + ColorReset
}
