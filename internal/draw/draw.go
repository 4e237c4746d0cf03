// Package draw renders colored character cells to ANSI terminals.
package draw

// Color is an SGR foreground sequence. The empty Color is the terminal default.
type Color string

const (
	ColorDefault       Color = ""
	ColorReset         Color = "\033[0m"
	ColorRed           Color = "\033[31m"
	ColorGreen         Color = "\033[32m"
	ColorYellow        Color = "\033[33m"
	ColorBlue          Color = "\033[34m"
	ColorMagenta       Color = "\033[35m"
	ColorCyan          Color = "\033[36m"
	ColorWhite         Color = "\033[37m"
	ColorBrightBlack   Color = "\033[90m"
	ColorBrightRed     Color = "\033[91m"
	ColorBrightGreen   Color = "\033[92m"
	ColorBrightYellow  Color = "\033[93m"
	ColorBrightBlue    Color = "\033[94m"
	ColorBrightMagenta Color = "\033[95m"
	ColorBrightCyan    Color = "\033[96m"
	ColorBrightWhite   Color = "\033[97m"
	ColorBold          Color = "\033[1m"
)

// Shade characters from lightest to darkest.
var Shades = []rune{' ', '░', '▒', '▓', '█'}

// ShadeLevel returns a shade character for a value between 0.0 (empty) and 1.0 (solid).
func ShadeLevel(intensity float64) rune {
	if intensity <= 0 {
		return Shades[0]
	}
	if intensity >= 1 {
		return Shades[len(Shades)-1]
	}
	idx := int(intensity * float64(len(Shades)-1))
	return Shades[idx]
}

// Block characters for drawing.
const (
	BlockFull   = '█'
	BlockLight  = '░'
	BlockMedium = '▒'
	BlockDark   = '▓'
	BlockEmpty  = ' '
)

// Box drawing characters.
const (
	BoxHorizontal  = '─'
	BoxVertical    = '│'
	BoxTopLeft     = '┌'
	BoxTopRight    = '┐'
	BoxBottomLeft  = '└'
	BoxBottomRight = '┘'
)
