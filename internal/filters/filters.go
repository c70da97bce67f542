// Filters perform color manipulation and per-pixel operations
package filters

import (
	"errors"

	"github.com/anas-shakeel/bmploader/internal/graphics"
	"github.com/anas-shakeel/bmploader/internal/utils"
)

var ErrInvalidImage = errors.New("invalid image: cannot apply filter")

// Runs fn over every pixel in-place, clamping the result to [0, 1]
func apply(img *graphics.Image, fn func(p graphics.Pixel) graphics.Pixel) error {
	if !img.IsValid() {
		return ErrInvalidImage
	}

	// Iterate rows
	for y := 0; y < img.Height(); y++ {
		row, _ := img.Row(y)
		// Iterate pixels in row
		for col, p := range row {
			row[col] = fn(p).Clamp()
		}
		if err := img.SetRow(y, row); err != nil {
			return err
		}
	}
	return nil
}

// Inverts (negates) the image; alpha is left alone
func Invert(img *graphics.Image) error {
	return apply(img, func(p graphics.Pixel) graphics.Pixel {
		return graphics.Pixel{R: 1 - p.R, G: 1 - p.G, B: 1 - p.B, A: p.A}
	})
}

// Converts an image to Black-and-White
func Grayscale(img *graphics.Image) error {
	return apply(img, func(p graphics.Pixel) graphics.Pixel {
		// Find the average value for pixel
		avg := utils.Average(p.R, p.G, p.B)
		return graphics.Pixel{R: avg, G: avg, B: avg, A: p.A}
	})
}

// Converts an image to Black-and-White (with ITU-R 601-2 Luma Transform)
func GrayscaleLuma(img *graphics.Image) error {
	return apply(img, func(p graphics.Pixel) graphics.Pixel {
		L := p.R*0.299 + p.G*0.587 + p.B*0.114
		return graphics.Pixel{R: L, G: L, B: L, A: p.A}
	})
}

// Adjusts the Brightness of an image in-place.
//
// method can be "add" (adds value to each channel) or "multiply" (multiplies each channel by value).
// Channels are on the 0..1 scale and clipped to [0, 1].
func Brightness(img *graphics.Image, factor float64, method string) error {
	type Operation func(x, y float64) float64
	var operation Operation

	// Select an operation of brightness (additive or multiplicative)
	switch method {
	case "add":
		operation = func(x, y float64) float64 {
			return x + y
		}
	case "multiply":
		operation = func(x, y float64) float64 {
			return x * y
		}
	default:
		return errors.New("invalid method: method must be add or multiply")
	}

	// Apply brightness (or darkness)
	return apply(img, func(p graphics.Pixel) graphics.Pixel {
		return graphics.Pixel{
			R: float32(operation(float64(p.R), factor)),
			G: float32(operation(float64(p.G), factor)),
			B: float32(operation(float64(p.B), factor)),
			A: p.A,
		}
	})
}

// Adjusts the Contrast of an image in-place.
// factor > 1.0 increases Contrast, factor < 1.0 decreases it.
func Contrast(img *graphics.Image, factor float64) error {
	if !img.IsValid() {
		return ErrInvalidImage
	}

	// Compute mean for each channel
	var sumR, sumG, sumB float64
	for y := 0; y < img.Height(); y++ {
		row, _ := img.Row(y)
		for _, p := range row {
			sumR += float64(p.R)
			sumG += float64(p.G)
			sumB += float64(p.B)
		}
	}
	totalPixels := float64(img.Width()) * float64(img.Height())
	meanR := sumR / totalPixels // Average of all R pixels
	meanG := sumG / totalPixels // Average of all G pixels
	meanB := sumB / totalPixels // Average of all B pixels

	// Apply contrast
	return apply(img, func(p graphics.Pixel) graphics.Pixel {
		return graphics.Pixel{
			R: float32(float64(p.R)*factor + (1-factor)*meanR),
			G: float32(float64(p.G)*factor + (1-factor)*meanG),
			B: float32(float64(p.B)*factor + (1-factor)*meanB),
			A: p.A,
		}
	})
}
