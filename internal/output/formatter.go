// Package output renders user-facing CLI output: colored status lines,
// aligned tables, JSON documents and verbatim blocks of captured text.
// Diagnostics go through the logger package instead.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	warnColor    = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
	headColor    = color.New(color.Bold)
)

var (
	mu  sync.Mutex
	out io.Writer = os.Stdout
)

// SetOutput redirects all output; nil restores os.Stdout
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stdout
	}
	out = w
}

// Writer returns the current destination
func Writer() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return out
}

// JSON outputs data as indented JSON
func JSON(data interface{}) error {
	encoder := json.NewEncoder(Writer())
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Table outputs rows under bold headers with aligned columns
func Table(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}
	w := Writer()

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	_, _ = headColor.Fprintln(w, formatRow(headers, widths))

	sep := make([]string, len(widths))
	for i, width := range widths {
		sep[i] = strings.Repeat("-", width)
	}
	fmt.Fprintln(w, strings.Join(sep, "  "))

	for _, row := range rows {
		fmt.Fprintln(w, formatRow(row, widths))
	}
}

// formatRow pads each cell to its column width; the last column is not padded
func formatRow(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if i == len(widths)-1 {
			parts[i] = cell
			continue
		}
		parts[i] = fmt.Sprintf("%-*s", widths[i], cell)
	}
	return strings.Join(parts, "  ")
}

// Success prints a success message
func Success(format string, args ...interface{}) {
	_, _ = successColor.Fprintf(Writer(), "✓ "+format+"\n", args...)
}

// Error prints an error message
func Error(format string, args ...interface{}) {
	_, _ = errorColor.Fprintf(Writer(), "✗ "+format+"\n", args...)
}

// Warn prints a warning message
func Warn(format string, args ...interface{}) {
	_, _ = warnColor.Fprintf(Writer(), "! "+format+"\n", args...)
}

// Info prints an info message
func Info(format string, args ...interface{}) {
	_, _ = infoColor.Fprintf(Writer(), "→ "+format+"\n", args...)
}

// Print prints a plain message
func Print(format string, args ...interface{}) {
	fmt.Fprintf(Writer(), format+"\n", args...)
}

// Block prints captured text verbatim, each line indented under a title.
// Nothing is printed for empty text.
func Block(title, text string) {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return
	}
	w := Writer()
	_, _ = headColor.Fprintln(w, title+":")
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintln(w, "    "+line)
	}
}
