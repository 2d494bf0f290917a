package utils

import (
	"strconv"
	"time"
)

// ParseEpoch converts an epoch-seconds string such as "1700000000" or
// "1700000000.0" to UTC time.
func ParseEpoch(epoch string) (time.Time, bool) {
	if epoch == "" {
		return time.Time{}, false
	}
	secs, err := strconv.ParseFloat(epoch, 64)
	if err != nil || secs <= 0 {
		return time.Time{}, false
	}
	return time.Unix(int64(secs), 0).UTC(), true
}

// PrettyDate formats t for reports and notifications.
func PrettyDate(t time.Time) string {
	return t.UTC().Format("02 Jan 2006 15:04 UTC")
}
