package checkins

import "time"

// CheckIn — append-only событие посещения. Никогда не меняется и не удаляется.
type CheckIn struct {
	ID          int64
	MemberID    int64
	CheckedInAt time.Time
}
