package logging

import (
	"log"
	"os"
)

// DebugEnabled controls whether Logger.Debug/Debugf/Debugln/DebugWriter
// actually emit anything. It defaults to false; neither the CLI nor the
// engine sets it.
var DebugEnabled bool

func init() {
	// Stdout is reserved for CLI output (query results, list tables); all
	// logging goes to stderr so the two streams can be piped separately.
	log.SetOutput(os.Stderr)
}
