// bmp package reads and writes uncompressed 24/32 bit Windows bitmaps
package bmp

import (
	"errors"
	"fmt"
	"io"

	"github.com/anas-shakeel/bmploader/internal/graphics"
	"github.com/anas-shakeel/bmploader/internal/utils"
)

// Bitmap is an image together with the headers it was last read with (or would be written with).
type Bitmap struct {
	Filename string
	BFHeader *BitmapFileHeader
	BIHeader *BitmapInfoHeader
	Stride   int
	Padding  int
	image    *graphics.Image
}

// Creates a width x height bitmap (24 bit) filled with one color
func NewBitmap(width, height int, fill graphics.Pixel) (*Bitmap, error) {
	if width <= 0 {
		return nil, errors.New("width must be greater than 0")
	} else if height <= 0 {
		return nil, errors.New("height must be greater than 0")
	}

	img := graphics.NewFilledImage(width, height, fill)
	if !img.IsValid() {
		return nil, graphics.ErrOverflow
	}

	b := &Bitmap{}
	if err := b.SetImage(img); err != nil {
		return nil, err
	}
	return b, nil
}

// Reads a Bitmap file
func ReadBitmap(filename string) (*Bitmap, error) {
	b := &Bitmap{}
	if err := b.Load(filename); err != nil {
		return nil, err
	}
	return b, nil
}

// Loads filename into the bitmap. On failure the bitmap keeps its previous contents.
func (b *Bitmap) Load(filename string) error {
	img, bfHeader, biHeader, err := load(filename)
	if err != nil {
		return fmt.Errorf("loading %s: %w", filename, err)
	}

	b.Filename = filename
	b.BFHeader = bfHeader
	b.BIHeader = biHeader
	b.Stride, b.Padding = rowLayout(img.Width(), int(biHeader.BitCount/8))
	b.image = img
	return nil
}

// Saves the bitmap image onto local disk (never overwrites an existing file)
func (b *Bitmap) Save(filename string, bitsPerPixel int) error {
	if _, _, err := save(b.image, filename, bitsPerPixel); err != nil {
		return fmt.Errorf("saving %s: %w", filename, err)
	}
	return nil
}

// The bitmap's pixels
func (b *Bitmap) Image() *graphics.Image {
	return b.image
}

// Replaces the pixels and updates the metadata to match (keeps the current bit depth)
func (b *Bitmap) SetImage(img *graphics.Image) error {
	if !img.IsValid() {
		return ErrInvalidImage
	}

	bitsPerPixel := 24
	if b.BIHeader != nil && b.BIHeader.BitCount == 32 {
		bitsPerPixel = 32
	}
	b.BFHeader, b.BIHeader = newHeaders(img.Width(), img.Height(), bitsPerPixel)
	b.Stride, b.Padding = rowLayout(img.Width(), bitsPerPixel/8)
	b.image = img
	return nil
}

func (b *Bitmap) Width() int {
	return b.image.Width()
}

func (b *Bitmap) Height() int {
	return b.image.Height()
}

func (b *Bitmap) IsValid() bool {
	return b.image.IsValid()
}

// Print the bitmap in terminal. Use for small images only
func (b *Bitmap) PrintBitmap(w io.Writer) {
	if !b.IsValid() {
		return
	}
	for y := 0; y < b.Height(); y++ {
		row, _ := b.image.Row(y)
		for _, pixel := range row {
			r, g, bl, _ := pixel.Bytes()
			fmt.Fprint(w, utils.ColoredBlock("  ", int(r), int(g), int(bl)))
		}
		fmt.Fprintln(w)
	}
}

// Print the Metadata bitmap in terminal. (in human-readable format)
func (b *Bitmap) PrintMetadata(w io.Writer) {
	if b.BFHeader == nil || b.BIHeader == nil {
		fmt.Fprintln(w, "No bitmap loaded")
		return
	}
	fmt.Fprintf(w, "Filename: \t%v\n", b.Filename)
	fmt.Fprintf(w, "Filesize: \t%v bytes\n", b.BFHeader.Size)
	fmt.Fprintf(w, "Width: \t\t%v px\n", b.BIHeader.Width)
	fmt.Fprintf(w, "Height: \t%v px\n", b.BIHeader.Height)
	fmt.Fprintf(w, "BitCount: \t%vbits\n", b.BIHeader.BitCount)
	fmt.Fprintf(w, "PixelOffset: \t%v bytes\n", b.BFHeader.OffBits)
	fmt.Fprintf(w, "PixelCount: \t%v pixels\n", uint64(b.BIHeader.Width)*uint64(b.BIHeader.Height))
	fmt.Fprintf(w, "Stride: \t%v bytes\n", b.Stride)
	fmt.Fprintf(w, "Padding: \t%v bytes\n", b.Padding)
}
