// Package logging provides the bracketed-tag stderr logger shared by the
// CLI and the solver pipeline, matching the teacher's plain log.Printf
// style ("[Engine] ...", "[Search] ...").
package logging

import (
	"log"
	"os"
)

// For returns a *log.Logger that prefixes every line with "[component] "
// and writes to stderr with microsecond timestamps.
func For(component string) *log.Logger {
	return log.New(os.Stderr, "["+component+"] ", log.Ltime|log.Lmicroseconds)
}
