package timesource

import (
	"time"

	"github.com/emberchain/emberd/domain/consensus/model"
)

type timeSource struct{}

// New returns a TimeSource backed by the system clock
func New() model.TimeSource {
	return &timeSource{}
}

func (ts *timeSource) Now() time.Time {
	return time.Now()
}
