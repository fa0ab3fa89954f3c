package store

import "time"

func timeAt(millis int64) time.Time {
	return time.UnixMilli(millis).UTC()
}
