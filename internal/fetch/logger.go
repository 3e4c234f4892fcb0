package fetch

import (
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// leveledZap adapts a zap logger to retryablehttp.LeveledLogger.
type leveledZap struct {
	inner *zap.SugaredLogger
}

var _ retryablehttp.LeveledLogger = leveledZap{}

// Error is logged as a warning since the request may still be retried.
func (l leveledZap) Error(msg string, keysAndValues ...interface{}) {
	l.inner.Warnw(msg, keysAndValues...)
}

func (l leveledZap) Warn(msg string, keysAndValues ...interface{}) {
	l.inner.Warnw(msg, keysAndValues...)
}

func (l leveledZap) Info(msg string, keysAndValues ...interface{}) {
	l.inner.Infow(msg, keysAndValues...)
}

// Debug carries the retry messages, so it is raised to info.
func (l leveledZap) Debug(msg string, keysAndValues ...interface{}) {
	l.inner.Infow(msg, keysAndValues...)
}
