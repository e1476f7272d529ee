package logger

import (
	"fmt"
	"os"
	"sync"
)

// BackendLog is the logging backend used to create all subsystem loggers.
var BackendLog = NewBackend()

var (
	subsystemsMutex sync.Mutex
	subsystems      = make(map[string]*Logger)
)

// RegisterSubSystem registers a new subsystem logger, should be called in
// a global variable, returns the existing one if the subsystem is already
// registered.
func RegisterSubSystem(subsystem string) *Logger {
	subsystemsMutex.Lock()
	defer subsystemsMutex.Unlock()
	logger, ok := subsystems[subsystem]
	if !ok {
		logger = BackendLog.Logger(subsystem)
		subsystems[subsystem] = logger
	}
	return logger
}

// InitLogStdout attaches stdout to the backend log and starts it.
func InitLogStdout(logLevel Level) {
	err := BackendLog.AddLogWriter(os.Stdout, logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding stdout to the logger for level %s: %s", logLevel, err)
		os.Exit(1)
	}
	initLog()
}

// InitLog attaches log file and error log file to the backend log and
// starts it.
func InitLog(logFile, errLogFile string) {
	err := BackendLog.AddLogFile(logFile, LevelTrace)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding log file %s as log rotator for level %s: %s", logFile, LevelTrace, err)
		os.Exit(1)
	}
	err = BackendLog.AddLogFile(errLogFile, LevelWarn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding log file %s as log rotator for level %s: %s", errLogFile, LevelWarn, err)
		os.Exit(1)
	}
	initLog()
}

func initLog() {
	err := BackendLog.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting the logger: %s ", err)
		os.Exit(1)
	}
}

// SetLogLevels sets the logging level for all of the subsystems to the
// given level.
func SetLogLevels(logLevel Level) {
	subsystemsMutex.Lock()
	defer subsystemsMutex.Unlock()
	for _, logger := range subsystems {
		logger.SetLevel(logLevel)
	}
}

// SetLogLevel sets the logging level of a single subsystem. Returns false
// if the subsystem doesn't exist.
func SetLogLevel(subsystem string, logLevel Level) bool {
	subsystemsMutex.Lock()
	defer subsystemsMutex.Unlock()
	logger, ok := subsystems[subsystem]
	if !ok {
		return false
	}
	logger.SetLevel(logLevel)
	return true
}
