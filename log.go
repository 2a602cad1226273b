package usecases

import (
	"context"
	"io"
	"log"
	"os"
)

// Logger is the leveled logging seam used throughout this library. Both a
// logrus entry and the GoLog adapter below satisfy it, so callers can plug
// in whatever they already use.
type Logger interface {
	Debugf(string, ...any)
	Infof(string, ...any)
	Warnf(string, ...any)
	Errorf(string, ...any)
	Fatalf(string, ...any)
}

// NopLogger discards everything except Fatalf, which still exits.
var NopLogger Logger = &nopLogger{}

type nopLogger struct{}

func (n *nopLogger) Debugf(string, ...any) {}
func (n *nopLogger) Infof(string, ...any)  {}
func (n *nopLogger) Warnf(string, ...any)  {}
func (n *nopLogger) Errorf(string, ...any) {}
func (n *nopLogger) Fatalf(string, ...any) { os.Exit(1) }

// GoLog adapts a standard library logger to the Logger interface.
// A nil writer discards all output.
func GoLog(w io.Writer, prefix string, flags int) Logger {
	if w == nil {
		w = io.Discard
	}
	return &goLog{l: log.New(w, prefix, flags)}
}

type goLog struct {
	l *log.Logger
}

func (g *goLog) Debugf(format string, args ...any) { g.l.Printf("[DEBUG] "+format, args...) }
func (g *goLog) Infof(format string, args ...any)  { g.l.Printf("[INFO]  "+format, args...) }
func (g *goLog) Warnf(format string, args ...any)  { g.l.Printf("[WARN]  "+format, args...) }
func (g *goLog) Errorf(format string, args ...any) { g.l.Printf("[ERROR] "+format, args...) }
func (g *goLog) Fatalf(format string, args ...any) { g.l.Fatalf("[FATAL] "+format, args...) }

type logKey uint8

const loggerKey logKey = 0

// SetLogger stores the logger on the context.
func SetLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// ContextLogger retrieves the logger from the context, falling back to NopLogger.
func ContextLogger(ctx context.Context) Logger {
	if logger, ok := ctx.Value(loggerKey).(Logger); ok {
		return logger
	}
	return NopLogger
}
