package zap

import (
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type St struct {
	l  *zap.Logger
	sl *zap.SugaredLogger
}

func New(level string, dev bool) *St {
	var cfg zap.Config

	if dev {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	// dev only changes the encoding, LOG_LEVEL still decides what is written
	cfg.Level.SetLevel(ParseLevel(level))

	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder

	l, err := cfg.Build(zap.AddCallerSkip(callerSkip))
	if err != nil {
		log.Fatal(err)
	}

	return FromLogger(l)
}

// NewNop discards everything, tests use it.
func NewNop() *St {
	return FromLogger(zap.NewNop())
}

func FromLogger(l *zap.Logger) *St {
	return &St{
		l:  l,
		sl: l.Sugar(),
	}
}

// ParseLevel maps a config string to a zap level, warn when unknown.
func ParseLevel(level string) zapcore.Level {
	switch level {
	case "error":
		return LevelError
	case "info":
		return LevelInfo
	case "debug":
		return LevelDebug
	default:
		return LevelWarn
	}
}

func (o *St) Fatal(args ...any) {
	o.sl.Fatal(args...)
}

func (o *St) Fatalf(tmpl string, args ...any) {
	o.sl.Fatalf(tmpl, args...)
}

func (o *St) Fatalw(msg string, err any, args ...any) {
	args = append(args, "error", err)
	o.sl.Fatalw(msg, args...)
}

func (o *St) Error(args ...any) {
	o.sl.Error(args...)
}

func (o *St) Errorf(tmpl string, args ...any) {
	o.sl.Errorf(tmpl, args...)
}

func (o *St) Errorw(msg string, err any, args ...any) {
	args = append(args, "error", err)
	o.sl.Errorw(msg, args...)
}

func (o *St) Warn(args ...any) {
	o.sl.Warn(args...)
}

func (o *St) Warnf(tmpl string, args ...any) {
	o.sl.Warnf(tmpl, args...)
}

func (o *St) Warnw(msg string, args ...any) {
	o.sl.Warnw(msg, args...)
}

func (o *St) Info(args ...any) {
	o.sl.Info(args...)
}

func (o *St) Infof(tmpl string, args ...any) {
	o.sl.Infof(tmpl, args...)
}

func (o *St) Infow(msg string, args ...any) {
	o.sl.Infow(msg, args...)
}

func (o *St) Debug(args ...any) {
	o.sl.Debug(args...)
}

func (o *St) Debugf(tmpl string, args ...any) {
	o.sl.Debugf(tmpl, args...)
}

func (o *St) Debugw(msg string, args ...any) {
	o.sl.Debugw(msg, args...)
}

func (o *St) Sync() {
	if err := o.sl.Sync(); err != nil {
		log.Println("Fail to sync zap-logger", err)
	}
}
