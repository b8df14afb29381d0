package config

import (
	"fmt"
	"log"
	"os"
)

// exit is replaced in tests.
var exit = os.Exit

// Exitf writes a formatted error message to stderr, after the standard
// logger's prefix, and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s%s\n", log.Prefix(), fmt.Sprintf(format, args...))
	exit(1)
}
