package graphics

import (
	"image"
	"image/color"
)

// Converts an image into a standard library *image.NRGBA (non-premultiplied, 8 bits per channel).
//
// Alpha is copied as is. Images decoded from 24 bit bitmaps have alpha 0 and
// come out fully transparent; use ToOpaqueNRGBA for those.
func ToNRGBA(img *Image) (*image.NRGBA, error) {
	return toNRGBA(img, false)
}

// Like ToNRGBA but every pixel gets alpha 255
func ToOpaqueNRGBA(img *Image) (*image.NRGBA, error) {
	return toNRGBA(img, true)
}

func toNRGBA(img *Image, opaque bool) (*image.NRGBA, error) {
	if !img.IsValid() {
		return nil, ErrInvalidImage
	}

	out := image.NewNRGBA(image.Rect(0, 0, img.width, img.height))
	for y := 0; y < img.height; y++ {
		for x := 0; x < img.width; x++ {
			p, _ := img.Pixel(x, y)
			r, g, b, a := p.Bytes()
			if opaque {
				a = 0xff
			}
			out.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: a})
		}
	}
	return out, nil
}

// Reports whether any pixel has a non-zero alpha.
// False for images decoded from 24 bit bitmaps, which carry no alpha.
func (img *Image) HasAlpha() bool {
	if !img.IsValid() {
		return false
	}
	for y := 0; y < img.height; y++ {
		row, _ := img.Row(y)
		for _, p := range row {
			if p.A != 0 {
				return true
			}
		}
	}
	return false
}

// Sets the alpha of every pixel to a
func (img *Image) SetAlpha(a float32) error {
	if !img.IsValid() {
		return ErrInvalidImage
	}
	for y := 0; y < img.height; y++ {
		row, _ := img.Row(y)
		for i := range row {
			row[i].A = a
		}
		if err := img.SetRow(y, row); err != nil {
			return err
		}
	}
	return nil
}

// Builds an image from any standard library image.Image
func FromImage(src image.Image) (*Image, error) {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	size, ok := MulSize(width, height)
	if !ok {
		return nil, ErrOverflow
	}
	if size == 0 {
		return nil, ErrInvalidImage
	}

	img := NewFilledImage(width, height, White())
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.NRGBAModel.Convert(src.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			if err := img.SetPixel(x, y, PixelFromBytes(c.R, c.G, c.B, c.A)); err != nil {
				return nil, err
			}
		}
	}
	return img, nil
}
