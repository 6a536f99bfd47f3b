// Package logging adapts zap to the service logging contract.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger wraps a sugared zap logger behind the Debug/Info/Warn/Error
// keyvals contract the core service logs against.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// New builds a production-config logger; debug lowers the level to Debug.
func New(debug bool) (*ZapLogger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &ZapLogger{sugar: logger.Sugar()}, nil
}

// NewNop returns a logger that discards everything, for tests.
func NewNop() *ZapLogger {
	return &ZapLogger{sugar: zap.NewNop().Sugar()}
}

func (l *ZapLogger) Debug(msg string, keyvals ...any) { l.sugar.Debugw(msg, keyvals...) }
func (l *ZapLogger) Info(msg string, keyvals ...any)  { l.sugar.Infow(msg, keyvals...) }
func (l *ZapLogger) Warn(msg string, keyvals ...any)  { l.sugar.Warnw(msg, keyvals...) }
func (l *ZapLogger) Error(msg string, keyvals ...any) { l.sugar.Errorw(msg, keyvals...) }

// Sync flushes buffered entries; call on shutdown.
func (l *ZapLogger) Sync() error { return l.sugar.Sync() }
