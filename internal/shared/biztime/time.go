// Package biztime centralizes time handling. All storage and transport use
// UTC; the business timezone is only used when formatting operator-facing
// timestamps.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultTimezone is the default business timezone.
	DefaultTimezone = "Asia/Ho_Chi_Minh"
)

var (
	bizLocation     *time.Location
	bizLocationOnce sync.Once
	initErr         error
)

// Init initializes the business timezone. Should be called once at startup.
func Init(tz string) error {
	bizLocationOnce.Do(func() {
		if tz == "" {
			tz = DefaultTimezone
		}
		bizLocation, initErr = time.LoadLocation(tz)
	})
	return initErr
}

// NowUTC returns the current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// InBizLocation converts a time to the business timezone for display.
func InBizLocation(t time.Time) (time.Time, error) {
	if bizLocation == nil {
		return time.Time{}, fmt.Errorf("biztime not initialized")
	}
	return t.In(bizLocation), nil
}
