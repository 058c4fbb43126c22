package chrono

import (
	"time"
)

// TimeAPI is the interface that anything depending on the system clock should use.
// All timestamps in this module are UTC; ad delivery windows and collection
// metadata carry no timezone of their own.
type TimeAPI interface {
	// Now returns the current time in UTC.
	Now() time.Time
}

// StandardTime is the standard implementation of TimeAPI using the standard library.
type StandardTime struct{}

// NewStandardTime is the constructor of StandardTime.
func NewStandardTime() StandardTime {
	return StandardTime{}
}

func (s StandardTime) Now() time.Time {
	return time.Now().UTC()
}
