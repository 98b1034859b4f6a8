package groupjoin

import (
	"sync/atomic"

	"github.com/go-logr/logr"
)

// loggerPtr stores the active logger. Accessed atomically so that SetLogger
// can be called concurrently with joins running on other goroutines.
var loggerPtr atomic.Pointer[logr.Logger]

func init() {
	l := logr.Discard()
	loggerPtr.Store(&l)
}

// SetLogger configures the logger used by groupjoin.
// By default groupjoin produces no log output.
//
// Verbosity levels used:
//   - V(1): per-call diagnostics (input and output sizes, parallel path taken)
//
// Errors are returned to the caller, never logged.
func SetLogger(l logr.Logger) {
	loggerPtr.Store(&l)
}

// Logger returns the current logger.
func Logger() logr.Logger {
	return *loggerPtr.Load()
}
