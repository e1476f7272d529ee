package model

import "time"

// TimeSource is the clock consensus reads the current time from
type TimeSource interface {
	Now() time.Time
}
