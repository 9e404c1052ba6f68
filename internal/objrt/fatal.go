package objrt

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// loggerHolder lets the runtime log the same way the teacher's cache does
// (pkg/config.go's WithLogger, default zap.NewNop()) without threading a
// logger through every call: the object runtime is a process-wide facility,
// just like the type registry it backs.
var loggerHolder atomic.Pointer[zap.Logger]

func init() {
	loggerHolder.Store(zap.NewNop())
}

// SetLogger installs the logger used for halt messages and immutable-
// violation warnings raised anywhere under objrt/hashengine/container. Passing
// nil restores the no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	loggerHolder.Store(l)
}

func logger() *zap.Logger { return loggerHolder.Load() }

// Logger returns the logger installed via SetLogger (zap.NewNop() by
// default), for packages that need to log through the same sink objrt uses
// (spec.md's ambient logging stack is process-wide, not per-container).
func Logger() *zap.Logger { return logger() }

// Halt implements spec.md §7's fail-fast error kinds (invalid-argument,
// type-mismatch, capacity-shrink-below-count, bogus-object, uninitialized-
// runtime): log a Fatal record through the assertion channel, then abort the
// process. zap.Logger.Fatal already calls os.Exit(1) after writing the
// record, so there is nothing further to do on return.
func Halt(reason string) {
	logger().Fatal("hashkernel: fatal invariant violation", zap.String("reason", reason))
	panic(reason) // unreachable unless the logger was swapped for one that doesn't exit
}
