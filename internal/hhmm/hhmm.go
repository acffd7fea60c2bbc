// Package hhmm works with times of day packed as hour*100+minute.
// The packed form is a wire contract: session config files and serialized
// session descriptions both carry times this way (930, 1130, 2100).
package hhmm

// MinutesPerDay is the size of the time-of-day ring.
const MinutesPerDay = 24 * 60

// Valid reports whether v is a well-formed packed time:
// hour in [0,24), minute in [0,60).
func Valid(v int) bool {
	if v < 0 {
		return false
	}
	return v/100 < 24 && v%100 < 60
}

// ToMinutes decodes a packed time to minutes since midnight.
func ToMinutes(v int) int {
	return v/100*60 + v%100
}

// FromMinutes encodes minutes since midnight back to packed form.
// The caller wraps into [0,1440) first.
func FromMinutes(min int) int {
	return min/60*100 + min%60
}

func Hour(v int) int { return v / 100 }

func Minute(v int) int { return v % 100 }
