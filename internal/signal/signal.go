// Package signal standardizes the directional stance shared between strategy
// implementations and the dispatch layer.
package signal

import "fmt"

// Signal is a discrete directional stance that persists across ticks until a
// strategy explicitly changes it. The integer values are part of the state
// blob wire format and must not be reordered.
type Signal int

const (
	Neutral Signal = 0
	Short   Signal = 1
	Long    Signal = 2
)

// String returns the stance name for logging.
func (s Signal) String() string {
	switch s {
	case Neutral:
		return "NEUTRAL"
	case Short:
		return "SHORT"
	case Long:
		return "LONG"
	default:
		return fmt.Sprintf("Signal(%d)", int(s))
	}
}

// Valid reports whether s is one of the three defined stances.
func (s Signal) Valid() bool {
	return s == Neutral || s == Short || s == Long
}

// Inverted maps Long to Short and Short to Long, leaving Neutral unchanged.
func (s Signal) Inverted() Signal {
	switch s {
	case Long:
		return Short
	case Short:
		return Long
	default:
		return s
	}
}
