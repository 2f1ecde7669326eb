package media

import (
	"fmt"
	"math"
)

// TrimRange is a start/end pair expressed as fractions of the source duration.
type TrimRange struct {
	Start float64
	End   float64
}

// FullRange selects the whole source.
var FullRange = TrimRange{Start: 0, End: 1}

func (r TrimRange) String() string {
	return fmt.Sprintf("%.3f..%.3f", r.Start, r.End)
}

// Validate checks both ends lie in [0,1] and start < end.
func (r TrimRange) Validate() error {
	switch {
	case math.IsNaN(r.Start) || math.IsNaN(r.End):
		return &InvalidRangeError{Start: r.Start, End: r.End, Reason: "bounds must be numbers"}
	case r.Start < 0 || r.Start > 1 || r.End < 0 || r.End > 1:
		return &InvalidRangeError{Start: r.Start, End: r.End, Reason: "bounds must lie in [0,1]"}
	case r.Start > r.End:
		return &InvalidRangeError{Start: r.Start, End: r.End, Reason: "start is after end"}
	case r.Start == r.End:
		return &InvalidRangeError{Start: r.Start, End: r.End, Reason: "range is empty"}
	}
	return nil
}

// Resolve turns the range into absolute bounds against duration at the given
// timescale. The end is clamped to the duration.
func (r TrimRange) Resolve(duration Time, scale int32) (TimeRange, error) {
	if err := r.Validate(); err != nil {
		return TimeRange{}, err
	}

	total := duration.Seconds()
	start := TimeFromSeconds(total*r.Start, scale)
	end := TimeFromSeconds(total*r.End, scale)

	limit := floorRescale(duration, start.Scale)
	if end.Compare(limit) > 0 {
		end = limit
	}

	tr := NewTimeRange(start, end)
	if tr.IsEmpty() {
		return TimeRange{}, &InvalidRangeError{Start: r.Start, End: r.End, Reason: "range rounds to zero duration"}
	}
	return tr, nil
}

// floorRescale converts t to scale without ever rounding past t.
func floorRescale(t Time, scale int32) Time {
	if t.Scale == scale || t.Scale == 0 {
		return Time{Value: t.Value, Scale: scale}
	}
	return Time{Value: t.Value * int64(scale) / int64(t.Scale), Scale: scale}
}

// FilterState toggles the grayscale transform for every output frame.
type FilterState bool

const (
	FilterOff       FilterState = false
	FilterGrayscale FilterState = true
)

func (f FilterState) String() string {
	if f {
		return "grayscale"
	}
	return "none"
}
