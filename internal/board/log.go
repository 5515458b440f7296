package board

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

// DebugMoveValidation enables extra consistency checks in Apply and the
// transition engine. Failures are reported through the package logger.
var DebugMoveValidation = false

var logger atomic.Pointer[zerolog.Logger]

func init() {
	nop := zerolog.Nop()
	logger.Store(&nop)
}

// SetLogger installs the logger used for debug output.
func SetLogger(l zerolog.Logger) {
	logger.Store(&l)
}

func debugLog() *zerolog.Logger {
	return logger.Load()
}
