package utils

import "time"

// TimestampLayout is the layout of last_update_time values written by the store
const TimestampLayout = "2006-01-02 15:04:05.000"

// Timestamp returns the current local time in TimestampLayout
func Timestamp() string {
	return time.Now().Format(TimestampLayout)
}
