package panics

import (
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/emberchain/emberd/infrastructure/logger"
)

const exitHandlerTimeout = 5 * time.Second

// HandlePanic recovers panics and then initiates a clean shutdown.
func HandlePanic(log *logger.Logger, goroutineName string) {
	err := recover()
	if err == nil {
		return
	}

	panicHandlerDone := make(chan struct{})
	go func() {
		log.Criticalf("Fatal error in goroutine `%s`: %+v", goroutineName, err)
		log.Criticalf("Goroutine stacktrace: %s", debug.Stack())
		logger.BackendLog.Close()
		close(panicHandlerDone)
	}()

	select {
	case <-time.After(exitHandlerTimeout):
		fmt.Fprintln(os.Stderr, "Couldn't handle a fatal error. Exiting...")
	case <-panicHandlerDone:
	}
	fmt.Fprintf(os.Stderr, "Fatal error in goroutine `%s`: %+v\n", goroutineName, err)
	fmt.Fprintf(os.Stderr, "Goroutine stacktrace: %s\n", debug.Stack())
	os.Exit(1)
}

// GoroutineWrapperFunc returns a goroutine wrapper function that
// sends any panics to the given log before exiting.
func GoroutineWrapperFunc(log *logger.Logger) func(name string, f func()) {
	return func(name string, f func()) {
		go func() {
			defer HandlePanic(log, name)
			f()
		}()
	}
}
