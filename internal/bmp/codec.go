package bmp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/anas-shakeel/bmploader/internal/graphics"
)

// Decodes an uncompressed 24 or 32 bit BMP from r.
//
// Rows are stored bottom-up on disk and come out top-down in the image.
// 24 bit files carry no alpha channel, their pixels get alpha 0.
func Decode(r io.Reader) (*graphics.Image, error) {
	available := int64(-1)
	if l, ok := r.(interface{ Len() int }); ok {
		available = int64(l.Len())
	}
	img, _, _, err := decode(r, available)
	return img, err
}

// available is the number of bytes left in r, or -1 when unknown.
// When known, pixel data the file cannot hold is rejected before allocating.
func decode(r io.Reader, available int64) (*graphics.Image, *BitmapFileHeader, *BitmapInfoHeader, error) {
	br := bufio.NewReader(r)
	log := Logger()

	// Read File Header
	var bfHeader BitmapFileHeader
	if err := bfHeader.Read(br); err != nil {
		if errors.Is(err, ErrNotBitmap) {
			log.Warn("bmp: bad signature", "signature", bfHeader.Type[:])
			return nil, nil, nil, err
		}
		return nil, nil, nil, fmt.Errorf("bmp: reading file header: %w", err)
	}

	// Read Info Header
	var biHeader BitmapInfoHeader
	if err := biHeader.Read(br); err != nil {
		return nil, nil, nil, fmt.Errorf("bmp: reading info header: %w", err)
	}
	if err := biHeader.Validate(); err != nil {
		log.Warn("bmp: unsupported info header",
			"width", biHeader.Width, "height", biHeader.Height,
			"bitCount", biHeader.BitCount, "compression", biHeader.Compression)
		return nil, nil, nil, err
	}
	log.Debug("bmp: headers read",
		"width", biHeader.Width, "height", biHeader.Height,
		"bitCount", biHeader.BitCount, "offBits", bfHeader.OffBits)

	// Pixel data may start after a larger info header or a gap
	consumed := int64(PixelOffset)
	if bfHeader.OffBits > PixelOffset {
		consumed = int64(bfHeader.OffBits)
		if _, err := io.CopyN(io.Discard, br, int64(bfHeader.OffBits-PixelOffset)); err != nil {
			return nil, nil, nil, fmt.Errorf("bmp: seeking to pixel data: %w", err)
		}
	}

	if uint64(biHeader.Width) > math.MaxInt || uint64(biHeader.Height) > math.MaxInt {
		return nil, nil, nil, graphics.ErrOverflow
	}
	width := int(biHeader.Width)
	height := int(biHeader.Height)
	bytesPerPixel := int(biHeader.BitCount / 8)

	size, ok := graphics.MulSize(width, height)
	if !ok {
		return nil, nil, nil, graphics.ErrOverflow
	}
	if _, ok := graphics.MulSize(width, bytesPerPixel+1); !ok {
		return nil, nil, nil, graphics.ErrOverflow
	}
	stride, _ := rowLayout(width, bytesPerPixel)
	if available >= 0 {
		need, ok := graphics.MulSize(stride, height)
		if remaining := available - consumed; !ok || int64(need) > remaining {
			log.Warn("bmp: pixel data truncated", "width", width, "height", height, "available", max(remaining, 0))
			return nil, nil, nil, fmt.Errorf("bmp: %d rows of %d bytes do not fit in %d bytes: %w",
				height, stride, max(remaining, 0), io.ErrUnexpectedEOF)
		}
	}

	buf := graphics.NewBuffer(size)
	if buf.Len() != size {
		return nil, nil, nil, graphics.ErrSizeMismatch
	}

	row := make([]byte, stride)
	pixels := make([]graphics.Pixel, width)

	// Rows come bottom-up: file row `line` is image row height-1-line
	for line := 0; line < height; line++ {
		if err := readRow(br, row, pixels, bytesPerPixel); err != nil {
			return nil, nil, nil, fmt.Errorf("bmp: reading row %d: %w", line, err)
		}
		if err := buf.SetPixels(pixels, width, (height-1-line)*width); err != nil {
			return nil, nil, nil, fmt.Errorf("bmp: storing row %d: %w", line, err)
		}
	}

	img, err := graphics.CreateImage(buf, width, height)
	if err != nil {
		return nil, nil, nil, err
	}
	if !img.IsValid() {
		return nil, nil, nil, ErrInvalidImage
	}
	return img, &bfHeader, &biHeader, nil
}

// Reads one stored row (pixels + padding) and converts its B,G,R[,A] bytes
func readRow(r io.Reader, row []byte, pixels []graphics.Pixel, bytesPerPixel int) error {
	if bytesPerPixel < 3 || bytesPerPixel > 4 {
		return ErrUnsupportedBitCount
	}
	if len(row) < len(pixels)*bytesPerPixel {
		return graphics.ErrSizeMismatch
	}
	if _, err := io.ReadFull(r, row); err != nil {
		return err
	}

	for col := range pixels {
		p := row[col*bytesPerPixel:]
		var alpha byte
		if bytesPerPixel == 4 {
			alpha = p[3]
		}
		pixels[col] = graphics.PixelFromBytes(p[2], p[1], p[0], alpha)
	}
	return nil
}

// Encodes img as an uncompressed BMP with 24 or 32 bits per pixel.
// Channels are clamped to [0, 1] and rounded to 8 bits.
func Encode(w io.Writer, img *graphics.Image, bitsPerPixel int) error {
	_, _, err := encode(w, img, bitsPerPixel)
	return err
}

func encode(w io.Writer, img *graphics.Image, bitsPerPixel int) (*BitmapFileHeader, *BitmapInfoHeader, error) {
	if bitsPerPixel != 24 && bitsPerPixel != 32 {
		return nil, nil, ErrUnsupportedBitCount
	}
	if !img.IsValid() {
		return nil, nil, ErrInvalidImage
	}

	width, height := img.Width(), img.Height()
	bytesPerPixel := bitsPerPixel / 8
	if width == 0 || height == 0 {
		return nil, nil, ErrInvalidDimensions
	}
	if uint64(width) > math.MaxUint32 || uint64(height) > math.MaxUint32 {
		return nil, nil, graphics.ErrOverflow
	}
	if _, ok := graphics.MulSize(width, bytesPerPixel+1); !ok {
		return nil, nil, graphics.ErrOverflow
	}
	stride, _ := rowLayout(width, bytesPerPixel)
	sizeImage, ok := graphics.MulSize(stride, height)
	if !ok || uint64(sizeImage) > math.MaxUint32-PixelOffset {
		return nil, nil, graphics.ErrOverflow
	}

	bfHeader, biHeader := newHeaders(width, height, bitsPerPixel)
	Logger().Debug("bmp: encoding",
		"width", width, "height", height, "bitCount", bitsPerPixel, "size", bfHeader.Size)

	// Create a buffer (to reduce syscalls)
	bw := bufio.NewWriter(w)

	// Write File Header
	if err := bfHeader.Write(bw); err != nil {
		return nil, nil, fmt.Errorf("bmp: writing file header: %w", err)
	}
	// Write Info Header
	if err := biHeader.Write(bw); err != nil {
		return nil, nil, fmt.Errorf("bmp: writing info header: %w", err)
	}

	// Write the pixels (BottomUp: last row first); padding bytes stay zero
	row := make([]byte, stride)
	for line := 0; line < height; line++ {
		pixels, ok := img.Row(height - 1 - line)
		if !ok {
			return nil, nil, ErrInvalidImage
		}
		for col, px := range pixels {
			r, g, b, a := px.Bytes()
			p := row[col*bytesPerPixel:]
			p[0], p[1], p[2] = b, g, r
			if bytesPerPixel == 4 {
				p[3] = a
			}
		}
		if _, err := bw.Write(row); err != nil {
			return nil, nil, fmt.Errorf("bmp: writing row %d: %w", line, err)
		}
	}

	// Write buffer to disk
	if err := bw.Flush(); err != nil {
		return nil, nil, fmt.Errorf("bmp: flushing: %w", err)
	}
	return bfHeader, biHeader, nil
}

// Reads a bitmap file into an image
func Load(filename string) (*graphics.Image, error) {
	img, _, _, err := load(filename)
	return img, err
}

func load(filename string) (*graphics.Image, *BitmapFileHeader, *BitmapInfoHeader, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, nil, nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, nil, nil, err
	}
	available := int64(-1)
	if info.Mode().IsRegular() {
		available = info.Size()
	}
	return decode(file, available)
}

// Writes img to a new file. An existing file is never overwritten.
// A failed write may leave a truncated file behind.
func Save(img *graphics.Image, filename string, bitsPerPixel int) error {
	_, _, err := save(img, filename, bitsPerPixel)
	return err
}

func save(img *graphics.Image, filename string, bitsPerPixel int) (*BitmapFileHeader, *BitmapInfoHeader, error) {
	// Validate before creating anything on disk
	if bitsPerPixel != 24 && bitsPerPixel != 32 {
		return nil, nil, ErrUnsupportedBitCount
	}
	if !img.IsValid() {
		return nil, nil, ErrInvalidImage
	}

	file, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	bfHeader, biHeader, err := encode(file, img, bitsPerPixel)
	if err != nil {
		Logger().Warn("bmp: save failed, output may be truncated", "file", filename, "err", err)
		return nil, nil, err
	}
	if err := file.Close(); err != nil {
		return nil, nil, err
	}
	return bfHeader, biHeader, nil
}
