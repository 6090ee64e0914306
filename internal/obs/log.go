// Package obs provides a small leveled wrapper around the standard
// library's log.Logger.
package obs

import (
	"log"
	"os"
)

// Logger writes leveled, prefixed lines to an underlying log.Logger.
type Logger struct {
	l *log.Logger
}

// New builds a Logger writing to os.Stderr with the given component
// name as prefix, e.g. New("ccp") logs as "ccp: ...".
func New(component string) *Logger {
	return &Logger{l: log.New(os.Stderr, component+": ", log.LstdFlags)}
}

func (lg *Logger) Infof(format string, args ...interface{}) {
	lg.l.Printf("INFO "+format, args...)
}

func (lg *Logger) Warnf(format string, args ...interface{}) {
	lg.l.Printf("WARN "+format, args...)
}

func (lg *Logger) Errorf(format string, args ...interface{}) {
	lg.l.Printf("ERROR "+format, args...)
}

// Fatalf logs and then calls os.Exit(1), matching log.Fatalf.
func (lg *Logger) Fatalf(format string, args ...interface{}) {
	lg.l.Fatalf("FATAL "+format, args...)
}
