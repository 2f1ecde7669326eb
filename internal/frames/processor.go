// Package frames holds the per-frame pixel steps applied while a composition
// is rendered, plus the presentation-side helpers used by players.
package frames

import (
	"image"
	"image/color"

	"github.com/kikiluvv/trimlab/internal/media"
)

// Processor is the per-frame processing step of a render description.
// Process must not modify src. FilterExpr is the equivalent ffmpeg filter
// expression, empty when the step leaves pixels untouched.
type Processor interface {
	Name() string
	Process(src *image.RGBA) *image.RGBA
	FilterExpr() string
}

// ForFilter returns the processor matching a filter state.
func ForFilter(state media.FilterState) Processor {
	if state == media.FilterGrayscale {
		return Grayscale{}
	}
	return Passthrough{}
}

// Passthrough hands the source frame through unchanged.
type Passthrough struct{}

func (Passthrough) Name() string { return "passthrough" }

func (Passthrough) Process(src *image.RGBA) *image.RGBA { return src }

func (Passthrough) FilterExpr() string { return "" }

// Grayscale replaces every pixel with its luma, keeping alpha.
type Grayscale struct{}

func (Grayscale) Name() string { return "grayscale" }

func (Grayscale) FilterExpr() string { return "hue=s=0" }

func (Grayscale) Process(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		si := src.PixOffset(b.Min.X, y)
		di := dst.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := src.Pix[si], src.Pix[si+1], src.Pix[si+2], src.Pix[si+3]
			l := color.GrayModel.Convert(color.RGBA{R: r, G: g, B: bl, A: 255}).(color.Gray).Y
			dst.Pix[di], dst.Pix[di+1], dst.Pix[di+2], dst.Pix[di+3] = l, l, l, a
			si += 4
			di += 4
		}
	}
	return dst
}
