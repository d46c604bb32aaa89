package output

import (
	"os"
	"strconv"

	"golang.org/x/term"
)

const (
	// DefaultTerminalWidth is used when the output is not a terminal.
	DefaultTerminalWidth = 80

	// TerminalMargin is reserved for borders and padding before columns share the width.
	TerminalMargin = 10

	// MaxColumnWidth caps a single column on wide terminals.
	MaxColumnWidth = 60
)

// TerminalWidth returns the width of the terminal attached to f, then $COLUMNS,
// then DefaultTerminalWidth.
func TerminalWidth(f *os.File) int {
	if f != nil {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	if columns, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && columns > 0 {
		return columns
	}
	return DefaultTerminalWidth
}
