// logging.go - structured logging for corochan diagnostics.
//
// Package-level configuration, following the teacher's logging.go
// convention: a global logger variable guarded by a mutex, replaceable via
// SetLogger. The default writes WARN-and-above JSON records to stderr. Unlike the teacher's hand-rolled
// Logger interface, the write path here delegates to
// github.com/joeycumines/logiface, backed by log/slog via
// github.com/joeycumines/logiface-slog.
package corochan

import (
	"log/slog"
	"os"
	"sync"

	"github.com/joeycumines/logiface"
	islog "github.com/joeycumines/logiface-slog"
)

var globalLogger struct {
	sync.RWMutex
	logger *logiface.Logger[*islog.Event]
}

func init() {
	globalLogger.logger = newDefaultLogger()
}

func newDefaultLogger() *logiface.Logger[*islog.Event] {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})
	return logiface.New[*islog.Event](islog.WithSlogHandler(handler))
}

// SetLogger replaces the package-level structured logger used to report
// protocol misuses, reentrancy, and coroutine failures that have no other
// observer (e.g. RunAsync's fire-and-forget errors). Passing nil restores
// the default, which writes WARN-and-above JSON records to stderr.
func SetLogger(logger *logiface.Logger[*islog.Event]) {
	globalLogger.Lock()
	defer globalLogger.Unlock()
	if logger == nil {
		logger = newDefaultLogger()
	}
	globalLogger.logger = logger
}

func getLogger() *logiface.Logger[*islog.Event] {
	globalLogger.RLock()
	defer globalLogger.RUnlock()
	return globalLogger.logger
}

func logProtocolMisuse(component, msg string) {
	getLogger().Warning().Str("component", component).Log(msg)
}

func logCoroutineFailure(component string, err error) {
	getLogger().Err().Str("component", component).Err(err).Log("coroutine body failed")
}
