package roundservice

import "time"

const (
	// RoundCapacity is the fixed number of slots in a round. A foursome.
	RoundCapacity = 4

	// MaxGuests is the most guests a single entry may bring.
	MaxGuests = 2

	// TentativeTTL is how long a MAYBE entry holds its slot before the
	// sweeper retires it.
	TentativeTTL = 36 * time.Hour
)
