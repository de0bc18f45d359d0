package roundutil

import "time"

// Clock abstracts "now" so expiry stamping and sweeps are deterministic
// under test.
type Clock interface {
	Now() time.Time
	NowUTC() time.Time
}

// RealClock is the production Clock backed by the system clock.
type RealClock struct{}

func (RealClock) Now() time.Time    { return time.Now() }
func (RealClock) NowUTC() time.Time { return time.Now().UTC() }
