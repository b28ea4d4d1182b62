package utils

import (
	"fmt"
	"io"
	"os"
)

// Verbose controls whether progress messages are printed.
// Set to false to suppress output.
var Verbose = true

// Output is the writer where progress messages are printed.
// Defaults to os.Stdout.
var Output io.Writer = os.Stdout

// Logf prints a progress message when Verbose is set.
func Logf(format string, args ...interface{}) {
	if !Verbose {
		return
	}
	fmt.Fprintf(Output, format, args...)
}
