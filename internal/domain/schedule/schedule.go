package schedule

import "time"

const (
	// MinIntervalHours and MaxIntervalHours bound the configurable cadence.
	MinIntervalHours = 1
	MaxIntervalHours = 24

	// DefaultIntervalHours is used when no configuration row exists yet.
	DefaultIntervalHours = 4
)

// Configuration is the single mutable schedule record. Updates are always
// whole-record replacements; there are no partial-field writes.
type Configuration struct {
	IntervalHours int
	NextExecution time.Time
	Active        bool
}
