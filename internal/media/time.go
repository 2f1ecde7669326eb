package media

import (
	"fmt"
	"math"
	"time"
)

// DefaultTimescale is the tick rate used for composition timestamps.
const DefaultTimescale int32 = 600

// Time is a rational timestamp: Value ticks of 1/Scale seconds.
type Time struct {
	Value int64
	Scale int32
}

// Zero returns time zero at the given scale.
func Zero(scale int32) Time {
	return Time{Value: 0, Scale: scale}
}

// TimeFromSeconds rounds seconds to the nearest tick at scale.
func TimeFromSeconds(seconds float64, scale int32) Time {
	if scale <= 0 {
		scale = DefaultTimescale
	}
	return Time{Value: int64(math.Round(seconds * float64(scale))), Scale: scale}
}

// Seconds returns the timestamp as floating point seconds.
func (t Time) Seconds() float64 {
	if t.Scale == 0 {
		return 0
	}
	return float64(t.Value) / float64(t.Scale)
}

// Duration converts to a time.Duration, rounding to the nearest nanosecond.
func (t Time) Duration() time.Duration {
	return time.Duration(math.Round(t.Seconds() * float64(time.Second)))
}

// Rescale converts t to another timescale.
func (t Time) Rescale(scale int32) Time {
	if t.Scale == scale {
		return t
	}
	return TimeFromSeconds(t.Seconds(), scale)
}

// Sub returns t-o at t's scale.
func (t Time) Sub(o Time) Time {
	o = o.Rescale(t.Scale)
	return Time{Value: t.Value - o.Value, Scale: t.Scale}
}

// Add returns t+o at t's scale.
func (t Time) Add(o Time) Time {
	o = o.Rescale(t.Scale)
	return Time{Value: t.Value + o.Value, Scale: t.Scale}
}

// Compare returns -1, 0 or 1.
func (t Time) Compare(o Time) int {
	// cross multiply to avoid rounding when scales differ
	l := t.Value * int64(o.Scale)
	r := o.Value * int64(t.Scale)
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	default:
		return 0
	}
}

// IsZero reports whether the timestamp is zero ticks.
func (t Time) IsZero() bool {
	return t.Value == 0
}

func (t Time) String() string {
	return fmt.Sprintf("%.3fs", t.Seconds())
}

// TimeRange is a half-open interval [Start, Start+Duration).
type TimeRange struct {
	Start    Time
	Duration Time
}

// NewTimeRange builds a range from start and end timestamps.
func NewTimeRange(start, end Time) TimeRange {
	return TimeRange{Start: start, Duration: end.Sub(start)}
}

// End returns the exclusive end of the range.
func (r TimeRange) End() Time {
	return r.Start.Add(r.Duration)
}

// IsEmpty reports whether the range covers no time.
func (r TimeRange) IsEmpty() bool {
	return r.Duration.Value <= 0
}

func (r TimeRange) String() string {
	return fmt.Sprintf("[%s, %s)", r.Start, r.End())
}
