package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// PrintStatus writes a status line with a coloured symbol.
func PrintStatus(w io.Writer, symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Fprintf(w, "%s %s\n", c.Sprint(symbol), message)
}

// OK writes a green check line.
func OK(w io.Writer, message string) {
	PrintStatus(w, "✓", message, color.FgGreen)
}

// Warn writes a yellow warning line.
func Warn(w io.Writer, message string) {
	PrintStatus(w, "⚠", message, color.FgYellow)
}

// Fail writes a red cross line.
func Fail(w io.Writer, message string) {
	PrintStatus(w, "✗", message, color.FgRed)
}
