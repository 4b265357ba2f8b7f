package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// AnnotateMarkers draws an outline box around each detected marker and writes
// the result next to the run output so a detection pass can be eyeballed.
//
// Boxes are colored along a hue ramp in detection order, which makes reading
// order mistakes (a row grouped wrongly, a swapped pair) stand out at a
// glance. The output format is inferred from the file extension.
func AnnotateMarkers(img image.Image, boxes []image.Rectangle, outPath string) error {
	bounds := img.Bounds()
	canvas := image.NewRGBA(bounds)
	draw.Draw(canvas, bounds, img, bounds.Min, draw.Src)

	for i, box := range boxes {
		c := rampColor(i, len(boxes))
		drawBox(canvas, box.Intersect(bounds), c)
	}

	if err := imaging.Save(canvas, outPath); err != nil {
		return fmt.Errorf("failed to save annotated page: %w", err)
	}
	return nil
}

// rampColor returns the i-th of n colors on a saturated hue ramp.
func rampColor(i, n int) color.RGBA {
	if n <= 0 {
		n = 1
	}
	hue := 360.0 * float64(i) / float64(n)
	r, g, b := colorful.Hsv(hue, 0.9, 0.9).RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// drawBox draws a 2px rectangle outline.
func drawBox(canvas *image.RGBA, box image.Rectangle, c color.RGBA) {
	for t := 0; t < 2; t++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			canvas.SetRGBA(x, box.Min.Y+t, c)
			canvas.SetRGBA(x, box.Max.Y-1-t, c)
		}
		for y := box.Min.Y; y < box.Max.Y; y++ {
			canvas.SetRGBA(box.Min.X+t, y, c)
			canvas.SetRGBA(box.Max.X-1-t, y, c)
		}
	}
}
