package logger

import (
	"time"
)

// LogAndMeasureExecutionTime logs that `functionName` started, and returns
// a function to defer that logs how long the function took.
func LogAndMeasureExecutionTime(log *Logger, functionName string) (onEnd func()) {
	start := time.Now()
	log.Tracef("%s start", functionName)
	return func() {
		log.Tracef("%s end. Took: %s", functionName, time.Since(start))
	}
}

// LogClosure is a closure that can be printed with %s to be used to
// generate expensive-to-create data for a detailed log level and avoid doing
// the work if the data isn't printed.
type LogClosure func() string

func (c LogClosure) String() string {
	return c()
}

// NewLogClosure casts a function to a LogClosure.
func NewLogClosure(c func() string) LogClosure {
	return c
}
