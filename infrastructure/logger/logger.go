package logger

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Logger is a subsystem logger for a Backend.
type Logger struct {
	level     uint32 // atomic; stores a Level
	tag       string
	writeChan chan<- logEntry
}

// Level returns the current logging level
func (l *Logger) Level() Level {
	return Level(atomic.LoadUint32(&l.level))
}

// SetLevel changes the logging level to the passed level.
func (l *Logger) SetLevel(logLevel Level) {
	atomic.StoreUint32(&l.level, uint32(logLevel))
}

func (l *Logger) write(logLevel Level, format string, args ...interface{}) {
	if logLevel < l.Level() {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	message := fmt.Sprintf(format, args...)
	logLine := fmt.Sprintf("%s [%s] %s: %s\n", timestamp, logLevel, l.tag, message)
	l.writeChan <- logEntry{log: []byte(logLine), level: logLevel}
}

// Tracef formats message according to format specifier and writes to
// to log with LevelTrace.
func (l *Logger) Tracef(format string, args ...interface{}) {
	l.write(LevelTrace, format, args...)
}

// Debugf formats message according to format specifier and writes to
// log with LevelDebug.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.write(LevelDebug, format, args...)
}

// Infof formats message according to format specifier and writes to
// log with LevelInfo.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.write(LevelInfo, format, args...)
}

// Warnf formats message according to format specifier and writes to
// to log with LevelWarn.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.write(LevelWarn, format, args...)
}

// Errorf formats message according to format specifier and writes to
// to log with LevelError.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.write(LevelError, format, args...)
}

// Criticalf formats message according to format specifier and writes to
// log with LevelCritical.
func (l *Logger) Criticalf(format string, args ...interface{}) {
	l.write(LevelCritical, format, args...)
}
