// Package logger provides the minimal logging seam used throughout the
// saml package. It exists so the core never hard-codes a logging
// framework: callers that already have zap, zerolog, or anything else can
// adapt it to this one-method interface.
package logger

import (
	"log"
	"os"
)

// Interface is satisfied by anything that can format and emit a log line.
// It is deliberately narrow so any logging framework can be adapted to it
// in a few lines.
type Interface interface {
	Printf(format string, v ...interface{})
}

// DefaultLogger writes to os.Stderr via the standard log package. It is
// used whenever a caller does not supply their own logger.
var DefaultLogger Interface = &goLogger{logger: log.New(os.Stderr, "", log.LstdFlags)}

type goLogger struct {
	logger *log.Logger
}

func (g *goLogger) Printf(format string, v ...interface{}) {
	g.logger.Printf(format, v...)
}

// Nop discards every log line. Useful in tests that don't want stderr
// noise from expected warnings.
var Nop Interface = nopLogger{}

type nopLogger struct{}

func (nopLogger) Printf(string, ...interface{}) {}
