// graphics package holds the in-memory pixel model (pixels, buffers and images)
package graphics

import "math"

// Pixel is a normalized RGBA color, every channel in [0.0, 1.0].
// Values are not validated; Clamp them before handing them to an encoder.
type Pixel struct {
	R, G, B, A float32
}

// Returns an opaque white pixel {1,1,1,1}
func White() Pixel {
	return Pixel{R: 1, G: 1, B: 1, A: 1}
}

// Returns an opaque pixel (alpha = 1.0)
func NewPixel(r, g, b float32) Pixel {
	return Pixel{R: r, G: g, B: b, A: 1}
}

// Returns a pixel with an explicit alpha
func NewPixelAlpha(r, g, b, a float32) Pixel {
	return Pixel{R: r, G: g, B: b, A: a}
}

// Builds a pixel from 8-bit channels (value / 255.0)
func PixelFromBytes(r, g, b, a byte) Pixel {
	return Pixel{
		R: float32(r) / 255.0,
		G: float32(g) / 255.0,
		B: float32(b) / 255.0,
		A: float32(a) / 255.0,
	}
}

// Returns a copy of p with every channel clamped to [0, 1]
func (p Pixel) Clamp() Pixel {
	return Pixel{R: clamp01(p.R), G: clamp01(p.G), B: clamp01(p.B), A: clamp01(p.A)}
}

// Returns the channels as rounded 8-bit values (R, G, B, A)
func (p Pixel) Bytes() (r, g, b, a byte) {
	c := p.Clamp()
	return toByte(c.R), toByte(c.G), toByte(c.B), toByte(c.A)
}

func clamp01(v float32) float32 {
	// NaN compares false everywhere, map it to 0
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func toByte(v float32) byte {
	return byte(math.Round(float64(v) * 255))
}
