package messages

import "time"

// AppleEpochOffset is the number of seconds between the Unix epoch and the
// Apple reference date, 2001-01-01T00:00:00Z.
const AppleEpochOffset = int64(978307200)

// AppleTime converts a chat.db date (nanoseconds since 2001-01-01 UTC) to a
// local time. Zero is treated as missing and yields the current time.
func AppleTime(raw int64) time.Time {
	if raw == 0 {
		return time.Now()
	}
	sec := raw / int64(time.Second)
	nsec := raw % int64(time.Second)
	return time.Unix(AppleEpochOffset+sec, nsec).Local()
}
