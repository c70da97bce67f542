package adjustments

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/anas-shakeel/bmploader/internal/graphics"
)

// Resampling methods understood by Resize
var scalers = map[string]draw.Scaler{
	"nearest":    draw.NearestNeighbor,
	"approx":     draw.ApproxBiLinear,
	"bilinear":   draw.BiLinear,
	"catmullrom": draw.CatmullRom,
}

// Scales the image to width x height using method ("nearest", "approx", "bilinear" or "catmullrom").
// Pixels are quantized to 8 bits per channel on the way through.
// An image whose alpha is 0 everywhere is treated as opaque.
func Resize(img *graphics.Image, width, height int, method string) (*graphics.Image, error) {
	scaler, ok := scalers[method]
	if !ok {
		return nil, fmt.Errorf("invalid resample method %q", method)
	}
	if width <= 0 || height <= 0 {
		return nil, errors.New("invalid size: width and height must be greater than 0")
	}
	if _, ok := graphics.MulSize(width, height); !ok {
		return nil, graphics.ErrOverflow
	}

	// The scalers premultiply by alpha. Images without alpha (24 bit loads)
	// are scaled as opaque and get their zero alpha back afterwards.
	carriesAlpha := img.HasAlpha()
	convert := graphics.ToNRGBA
	if !carriesAlpha {
		convert = graphics.ToOpaqueNRGBA
	}

	src, err := convert(img)
	if err != nil {
		return nil, err
	}
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	scaler.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	out, err := graphics.FromImage(dst)
	if err != nil {
		return nil, err
	}
	if !carriesAlpha {
		if err := out.SetAlpha(0); err != nil {
			return nil, err
		}
	}
	return out, nil
}
