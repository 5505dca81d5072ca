package logger

// NoOpLogger discards everything. Test fixtures use it so assertions
// stay free of log noise.
type NoOpLogger struct{}

// NewNop returns a logger that drops all output.
func NewNop() Logger {
	return &NoOpLogger{}
}

func (l *NoOpLogger) Debug(msg string, fields ...Field) {}

func (l *NoOpLogger) Info(msg string, fields ...Field) {}

func (l *NoOpLogger) Warn(msg string, fields ...Field) {}

// Error discards the message like every other level.
func (l *NoOpLogger) Error(msg string, fields ...Field) {}

// Fatal discards the message and does not exit.
func (l *NoOpLogger) Fatal(msg string, fields ...Field) {}

// With returns the receiver; there is no state to attach fields to.
func (l *NoOpLogger) With(fields ...Field) Logger {
	return l
}

// Sync has nothing to flush.
func (l *NoOpLogger) Sync() error {
	return nil
}
