// Package output formats command results for terminal and script use.
//
// Every helper has a writer-taking form so tests can capture output; the
// plain forms target stdout and stderr the way commands use them.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
)

// JSONTo writes v to w as indented JSON.
func JSONTo(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// JSON writes indented JSON to stdout.
func JSON(v any) error {
	return JSONTo(os.Stdout, v)
}

// TableTo creates an aligned table writer over w. Call Flush when done.
func TableTo(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// Table creates an aligned table writer for stdout.
// Remember to call Flush() when done writing.
func Table() *tabwriter.Writer {
	return TableTo(os.Stdout)
}

// WarnTo prints a warning message to w.
func WarnTo(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "Warning: "+format+"\n", args...)
}

// Warn prints a warning message to stderr.
func Warn(format string, args ...any) {
	WarnTo(os.Stderr, format, args...)
}
