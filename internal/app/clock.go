package app

import "time"

// Clock supplies the current instant. The pipeline depends on it instead of
// time.Now so that batch timing is testable.
type Clock interface {
	Now() time.Time
}
