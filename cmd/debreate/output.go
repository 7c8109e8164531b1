package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var noColor bool

func colorize(attr color.Attribute, text string) string {
	if noColor {
		return text
	}
	c := color.New(attr)
	c.EnableColor()
	return c.Sprint(text)
}

func printSuccess(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, colorize(color.FgGreen, "✓ "+msg))
}

func printError(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, colorize(color.FgRed, "✗ "+msg))
}

func printWarning(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, colorize(color.FgYellow, "⚠ "+msg))
}

func printKey(w io.Writer, key, value string) {
	fmt.Fprintf(w, "  %s = %s\n", colorize(color.Bold, key), value)
}
