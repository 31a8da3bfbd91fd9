package client

import "time"

// nowMillis returns the local wall clock in milliseconds, the client's
// monotonic time base for timestamps and the server_time_offset estimate.
func nowMillis() int64 {
	return time.Now().UnixMilli()
}
