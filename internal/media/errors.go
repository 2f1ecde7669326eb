package media

import (
	"errors"
	"fmt"
)

// NoVideoTrackError is returned when a source has no video track.
type NoVideoTrackError struct {
	Source string
}

func (e *NoVideoTrackError) Error() string {
	return fmt.Sprintf("no video track in source %q", e.Source)
}

func IsNoVideoTrackError(err error) bool {
	var target *NoVideoTrackError
	return errors.As(err, &target)
}

// InvalidRangeError is returned for trim ranges outside [0,1], reversed or empty.
type InvalidRangeError struct {
	Start  float64
	End    float64
	Reason string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid trim range (%.4f, %.4f): %s", e.Start, e.End, e.Reason)
}

func IsInvalidRangeError(err error) bool {
	var target *InvalidRangeError
	return errors.As(err, &target)
}

// AssetUnavailableError is returned when a source cannot be opened or read.
type AssetUnavailableError struct {
	Source string
	Reason string
	Err    error
}

func (e *AssetUnavailableError) Error() string {
	msg := "asset unavailable"
	if e.Source != "" {
		msg += fmt.Sprintf(" %q", e.Source)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AssetUnavailableError) Unwrap() error {
	return e.Err
}

func IsAssetUnavailableError(err error) bool {
	var target *AssetUnavailableError
	return errors.As(err, &target)
}

// CompositionBuildError wraps a failure while assembling a composition or
// its render description.
type CompositionBuildError struct {
	Stage string
	Err   error
}

func (e *CompositionBuildError) Error() string {
	return fmt.Sprintf("composition build failed at %s: %v", e.Stage, e.Err)
}

func (e *CompositionBuildError) Unwrap() error {
	return e.Err
}

func IsCompositionBuildError(err error) bool {
	var target *CompositionBuildError
	return errors.As(err, &target)
}
