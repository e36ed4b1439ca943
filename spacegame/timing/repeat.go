package timing

import "time"

// Hold-repeat schedule. Each repeat interval is the previous one scaled by
// RepeatAccel, never dropping below MinRepeatInterval.
const (
	InitialRepeatDelay    = 400 * time.Millisecond
	InitialRepeatInterval = 150 * time.Millisecond
	MinRepeatInterval     = 40 * time.Millisecond // ~25 per second
	RepeatAccel           = 0.80
)

// NextRepeatInterval returns the interval that follows current.
func NextRepeatInterval(current time.Duration) time.Duration {
	next := time.Duration(float64(current) * RepeatAccel)
	if next < MinRepeatInterval {
		return MinRepeatInterval
	}
	return next
}
