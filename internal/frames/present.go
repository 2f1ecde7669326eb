package frames

import (
	"image"

	"github.com/nfnt/resize"
)

// Rotate turns a frame clockwise by a right angle for presentation.
// Degrees other than 90, 180 and 270 return src unchanged.
func Rotate(src *image.RGBA, degrees int) *image.RGBA {
	degrees = ((degrees % 360) + 360) % 360
	if degrees == 0 || degrees%90 != 0 {
		return src
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	var dst *image.RGBA
	if degrees == 180 {
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
	} else {
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var dx, dy int
			switch degrees {
			case 90:
				dx, dy = h-1-y, x
			case 180:
				dx, dy = w-1-x, h-1-y
			case 270:
				dx, dy = y, w-1-x
			}
			si := src.PixOffset(b.Min.X+x, b.Min.Y+y)
			di := dst.PixOffset(dx, dy)
			copy(dst.Pix[di:di+4], src.Pix[si:si+4])
		}
	}
	return dst
}

// Thumbnail scales a frame to width, keeping the aspect ratio.
// A non-positive width returns src.
func Thumbnail(src image.Image, width int) image.Image {
	if width <= 0 || src.Bounds().Dx() <= width {
		return src
	}
	return resize.Resize(uint(width), 0, src, resize.Lanczos3)
}
