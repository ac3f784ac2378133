package agent

import "log"

// debugf writes a diagnostic line to the standard logger. Callers gate it
// on their own debug flag; nothing in the package logs in release mode.
func debugf(format string, args ...any) {
	log.Printf("agent: "+format, args...)
}
