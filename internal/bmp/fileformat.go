// BMP-specific structs and types
package bmp

import (
	"encoding/binary"
	"errors"
	"io"
)

const (
	FileHeaderSize = 14 // Size of BITMAPFILEHEADER on disk
	InfoHeaderSize = 40 // Size of BITMAPINFOHEADER on disk
	PixelOffset    = FileHeaderSize + InfoHeaderSize

	BIRGB = 0 // Compression: uncompressed (BI_RGB)
)

// "BM"
var signature = [2]byte{0x42, 0x4d}

var (
	ErrNotBitmap              = errors.New("invalid file: provided file is not a bitmap")
	ErrInvalidDimensions      = errors.New("invalid bitmap: width and height must be greater than 0")
	ErrUnsupportedBitCount    = errors.New("unsupported BMP format: only 24 and 32 bits per pixel are supported")
	ErrUnsupportedCompression = errors.New("unsupported BMP format: only uncompressed (BI_RGB) bitmaps are supported")
	ErrInvalidImage           = errors.New("invalid image: pixel buffer does not match its dimensions")
)

// The BitmapFileHeader structure contains information about the type, size,
// and layout of a file that contains a DIB [device-independent bitmap].
// https://learn.microsoft.com/en-us/windows/win32/api/wingdi/ns-wingdi-bitmapfileheader

type BitmapFileHeader struct {
	Type      [2]byte // The file type: must be 0x4d42 (ASCII string "BM").
	Size      uint32  // The size, in bytes, of the bitmap file.
	Reserved1 uint16  // Reserved; must be zero.
	Reserved2 uint16  // Reserved; must be zero.
	OffBits   uint32  // Bitmap File Offset (In bytes) to Pixel Arrays
}

// Reads the header field by field. The signature comes first and
// nothing else is read when it is not "BM".
func (h *BitmapFileHeader) Read(r io.Reader) error {
	if _, err := io.ReadFull(r, h.Type[:]); err != nil {
		return err
	}
	if h.Type != signature {
		return ErrNotBitmap
	}

	for _, field := range []any{&h.Size, &h.Reserved1, &h.Reserved2, &h.OffBits} {
		if err := binary.Read(r, binary.LittleEndian, field); err != nil {
			return err
		}
	}
	return nil
}

func (h *BitmapFileHeader) Write(w io.Writer) error {
	return binary.Write(w, binary.LittleEndian, h)
}

// The BitmapInfoHeader structure contains information about the
// dimensions and color format of DIB [device-independent bitmap].

type BitmapInfoHeader struct {
	Size            uint32 // The number of bytes required by the structure.
	Width           uint32 // The width of the bitmap, in pixels.
	Height          uint32 // The height of the bitmap, in pixels
	Planes          uint16 // The number of planes for the target device.
	BitCount        uint16 // The number of bits-per-pixel.
	Compression     uint32 // The type of compression
	SizeImage       uint32 // The size of the image (in bytes).
	XPixelsPerM     int32  // The horizontal resolution, in pixels-per-meter.
	YPixelsPerM     int32  // The vertical resolution, in pixels-per-meter.
	ColorsUsed      uint32 // Number of color indexes that are actually used by bitmap.
	ColorsImportant uint32 // Number of color indexes required for displaying the bitmap.
}

func (h *BitmapInfoHeader) Read(r io.Reader) error {
	return binary.Read(r, binary.LittleEndian, h)
}

func (h *BitmapInfoHeader) Write(w io.Writer) error {
	return binary.Write(w, binary.LittleEndian, h)
}

// Checks the header describes something this package can decode
func (h *BitmapInfoHeader) Validate() error {
	if h.Width == 0 || h.Height == 0 {
		return ErrInvalidDimensions
	}
	if h.BitCount != 24 && h.BitCount != 32 {
		return ErrUnsupportedBitCount
	}
	if h.Compression != BIRGB {
		return ErrUnsupportedCompression
	}
	return nil
}

// Bytes in one stored row (incl. padding) and the padding itself.
// Rows are padded to a multiple of 4 bytes.
func rowLayout(width, bytesPerPixel int) (stride, padding int) {
	rowBytes := width * bytesPerPixel
	stride = (rowBytes + 3) &^ 3
	return stride, stride - rowBytes
}

// Builds the headers describing a width x height image at bitsPerPixel
func newHeaders(width, height, bitsPerPixel int) (*BitmapFileHeader, *BitmapInfoHeader) {
	stride, _ := rowLayout(width, bitsPerPixel/8)
	sizeImage := uint32(stride * height)

	bfh := &BitmapFileHeader{
		Type:    signature,
		Size:    PixelOffset + sizeImage, // Size of the whole bitmap file
		OffBits: PixelOffset,
	}
	bih := &BitmapInfoHeader{
		Size:        InfoHeaderSize,
		Width:       uint32(width),
		Height:      uint32(height),
		Planes:      1,
		BitCount:    uint16(bitsPerPixel),
		Compression: BIRGB,
		SizeImage:   sizeImage,
	}
	return bfh, bih
}
