package logging

import "go.uber.org/zap"

// AtomicLevel is a level that can be changed while loggers using it are live.
type AtomicLevel struct {
	zapLevel zap.AtomicLevel
}

// NewAtomicLevelAt creates a new AtomicLevel at the input initLevel.
func NewAtomicLevelAt(initLevel Level) AtomicLevel {
	return AtomicLevel{zap.NewAtomicLevelAt(initLevel.AsZap())}
}

// Set changes the level.
func (level AtomicLevel) Set(newLevel Level) {
	level.zapLevel.SetLevel(newLevel.AsZap())
}

// Get returns the level.
func (level AtomicLevel) Get() Level {
	switch level.zapLevel.Level() {
	case zap.DebugLevel:
		return DEBUG
	case zap.WarnLevel:
		return WARN
	case zap.ErrorLevel:
		return ERROR
	default:
		return INFO
	}
}
