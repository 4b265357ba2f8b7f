package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/blur"
)

// Plane is a single-channel float64 raster in row-major order.
//
// Both detectors work on luminance rather than color: the aya markers are
// dark glyphs on cream paper and the template match is contrast-driven.
type Plane struct {
	Width  int
	Height int
	Pix    []float64
}

// At returns the value at (x, y). No bounds checking is performed.
func (p *Plane) At(x, y int) float64 {
	return p.Pix[y*p.Width+x]
}

// Row returns the row-major slice for row y.
func (p *Plane) Row(y int) []float64 {
	return p.Pix[y*p.Width : (y+1)*p.Width]
}

// ToGray converts an image to a luminance plane using ITU-R BT.601 weights.
// Formula: Y = 0.299*R + 0.587*G + 0.114*B
func ToGray(img image.Image) *Plane {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	p := &Plane{
		Width:  width,
		Height: height,
		Pix:    make([]float64, width*height),
	}

	i := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			p.Pix[i] = float64(r>>8)*0.299 + float64(g>>8)*0.587 + float64(b>>8)*0.114
			i++
		}
	}

	return p
}

// BlurredGray applies a Gaussian blur and converts the result to a luminance
// plane. The circle detector runs on a blurred plane so paper grain and
// compression artifacts do not vote in the accumulator.
func BlurredGray(img image.Image, radius float64) *Plane {
	if radius <= 0 {
		return ToGray(img)
	}
	return ToGray(blur.Gaussian(img, radius))
}
