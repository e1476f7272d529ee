package logger

import "strings"

// Level governs which messages a logger emits. Messages sent below the
// configured level are dropped.
type Level uint32

// Severity levels, ordered from chattiest to silent.
const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelCritical
	LevelOff
)

var levelTags = [...]string{
	LevelTrace:    "TRC",
	LevelDebug:    "DBG",
	LevelInfo:     "INF",
	LevelWarn:     "WRN",
	LevelError:    "ERR",
	LevelCritical: "CRT",
	LevelOff:      "OFF",
}

var levelsByName = map[string]Level{
	"trace": LevelTrace, "trc": LevelTrace,
	"debug": LevelDebug, "dbg": LevelDebug,
	"info": LevelInfo, "inf": LevelInfo,
	"warn": LevelWarn, "wrn": LevelWarn,
	"error": LevelError, "err": LevelError,
	"critical": LevelCritical, "crt": LevelCritical,
	"off": LevelOff,
}

// LevelFromString parses a level from its long name or its three-letter
// tag, case-insensitively. Input that names no level yields LevelInfo
// and false.
func LevelFromString(s string) (Level, bool) {
	level, ok := levelsByName[strings.ToLower(s)]
	if !ok {
		return LevelInfo, false
	}
	return level, true
}

// String returns the three-letter tag written in log lines. Any level at
// which nothing is emitted reports itself as "OFF".
func (l Level) String() string {
	if l > LevelOff {
		return "OFF"
	}
	return levelTags[l]
}
