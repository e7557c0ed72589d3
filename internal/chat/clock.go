package chat

import "time"

// TimestampLayout is the wall-clock format stored with every turn and fed
// into the digest. Sub-second precision keeps same-second turns distinct;
// the date prefix is what the dashboard groups by.
const TimestampLayout = "2006-01-02 15:04:05.000000"

// Clock supplies the persistence timestamp. Injected so tests can pin the
// time and assert exact digests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

func SystemClock() Clock { return systemClock{} }
