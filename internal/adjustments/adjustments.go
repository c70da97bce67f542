// Adjusts image dimensions, orientation, or structure.
package adjustments

import (
	"errors"

	"github.com/anas-shakeel/bmploader/internal/graphics"
)

// Crops a region in the image (0,0  is at the top-left of the image)
func Crop(img *graphics.Image, x, y, width, height int) (*graphics.Image, error) {
	if !img.IsValid() {
		return nil, graphics.ErrInvalidImage
	}

	// Validate bounds
	if x < 0 || y < 0 {
		return nil, errors.New("invalid bounds: origin must not be negative")
	} else if width <= 0 || height <= 0 {
		return nil, errors.New("invalid bounds: width and height must be greater than 0")
	} else if width > img.Width()-x {
		return nil, errors.New("invalid bounds: width out of bounds")
	} else if height > img.Height()-y {
		return nil, errors.New("invalid bounds: height out of bounds")
	}

	cropped := graphics.NewFilledImage(width, height, graphics.White())
	for row := 0; row < height; row++ { // Height | Rows
		src, _ := img.Row(row + y)
		if err := cropped.SetRow(row, src[x:x+width]); err != nil {
			return nil, err
		}
	}

	return cropped, nil
}

// Returns an image containing a single channel of the source image.
// channel can one of (`red`, `green`, and `blue`)
func Channel(img *graphics.Image, channel string) (*graphics.Image, error) {
	var keep func(p graphics.Pixel) graphics.Pixel

	// Turn the channels to zero except requested one!
	switch channel {
	case "red":
		keep = func(p graphics.Pixel) graphics.Pixel { return graphics.Pixel{R: p.R, A: p.A} }
	case "green":
		keep = func(p graphics.Pixel) graphics.Pixel { return graphics.Pixel{G: p.G, A: p.A} }
	case "blue":
		keep = func(p graphics.Pixel) graphics.Pixel { return graphics.Pixel{B: p.B, A: p.A} }
	default:
		return nil, errors.New("invalid color channel: only red, green, and blue are supported")
	}
	if !img.IsValid() {
		return nil, graphics.ErrInvalidImage
	}

	out := img.Clone()
	for y := 0; y < out.Height(); y++ {
		row, _ := out.Row(y)
		for col := range row {
			row[col] = keep(row[col])
		}
		if err := out.SetRow(y, row); err != nil {
			return nil, err
		}
	}
	return out, nil
}
