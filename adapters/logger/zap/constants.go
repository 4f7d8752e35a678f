package zap

import (
	"go.uber.org/zap"
)

const (
	LevelError = zap.ErrorLevel
	LevelWarn  = zap.WarnLevel
	LevelInfo  = zap.InfoLevel
	LevelDebug = zap.DebugLevel
)

const callerSkip = 1
