package media

import (
	"fmt"
	"math"
)

// Transform is a 2D affine display matrix:
//
//	| A  B  0 |
//	| C  D  0 |
//	| TX TY 1 |
type Transform struct {
	A, B, C, D float64
	TX, TY     float64
}

// Identity is the no-op transform.
var Identity = Transform{A: 1, D: 1}

// RotationTransform returns the display matrix for a clockwise rotation in
// degrees. Right angles produce exact coefficients.
func RotationTransform(degrees float64) Transform {
	rad := degrees * math.Pi / 180
	cos := snap(math.Cos(rad))
	sin := snap(math.Sin(rad))
	return Transform{A: cos, B: sin, C: -sin, D: cos}
}

func snap(v float64) float64 {
	r := math.Round(v)
	if math.Abs(v-r) < 1e-9 {
		v = r
	}
	if v == 0 {
		// normalize -0
		return 0
	}
	return v
}

func (t Transform) String() string {
	return fmt.Sprintf("[%g %g; %g %g; %g %g]", t.A, t.B, t.C, t.D, t.TX, t.TY)
}

// Orientation is the display orientation recognized from a track transform.
type Orientation int

const (
	OrientationDefault Orientation = iota
	OrientationPortrait
	OrientationLandscapeLeft
	OrientationLandscapeRight
)

func (o Orientation) String() string {
	switch o {
	case OrientationPortrait:
		return "portrait"
	case OrientationLandscapeLeft:
		return "landscape-left"
	case OrientationLandscapeRight:
		return "landscape-right"
	default:
		return "default"
	}
}

// Rotation is the clockwise presentation rotation in degrees.
func (o Orientation) Rotation() int {
	switch o {
	case OrientationPortrait:
		return 90
	case OrientationLandscapeLeft:
		return 180
	default:
		return 0
	}
}

// ClassifyOrientation maps a transform onto one of the four known
// orientations. It is a fixed lookup over exact coefficients checked in
// order; any transform that matches none of them is OrientationDefault.
func ClassifyOrientation(t Transform) Orientation {
	switch {
	case t.A == 0 && t.D == 0:
		return OrientationPortrait
	case t.B == 1 && t.C == -1:
		return OrientationLandscapeLeft
	case t.B == -1 && t.C == 1:
		return OrientationLandscapeRight
	default:
		return OrientationDefault
	}
}
