package bmp

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/anas-shakeel/bmploader/internal/graphics"
)

// 8-bit test pattern, distinct per pixel so row order mistakes show up
func pattern(x, y int) (r, g, b, a byte) {
	return byte(x * 40), byte(y * 60), byte((x + y) * 20), byte(255 - x*10)
}

func patternImage(t *testing.T, width, height int) *graphics.Image {
	t.Helper()
	img := graphics.NewFilledImage(width, height, graphics.White())
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if err := img.SetPixel(x, y, graphics.PixelFromBytes(pattern(x, y))); err != nil {
				t.Fatalf("SetPixel(%d, %d) = %v", x, y, err)
			}
		}
	}
	return img
}

type rawHeader struct {
	width, height uint32
	bitCount      uint16
	compression   uint32
	offBits       uint32
}

// Assembles a bitmap file by hand, independent of the package's own header types
func rawBitmap(h rawHeader, pixelData []byte) []byte {
	if h.offBits == 0 {
		h.offBits = PixelOffset
	}
	var buf bytes.Buffer
	le := binary.LittleEndian
	buf.WriteString("BM")
	binary.Write(&buf, le, uint32(int(h.offBits)+len(pixelData)))
	binary.Write(&buf, le, uint32(0)) // reserved 1 + 2
	binary.Write(&buf, le, h.offBits)
	binary.Write(&buf, le, uint32(40))
	binary.Write(&buf, le, h.width)
	binary.Write(&buf, le, h.height)
	binary.Write(&buf, le, uint16(1))
	binary.Write(&buf, le, h.bitCount)
	binary.Write(&buf, le, h.compression)
	binary.Write(&buf, le, uint32(len(pixelData)))
	buf.Write(make([]byte, 16)) // resolution + colors
	for buf.Len() < int(h.offBits) {
		buf.WriteByte(0xee)
	}
	buf.Write(pixelData)
	return buf.Bytes()
}

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) <= 1.0/255.0
}

func TestRowLayout(t *testing.T) {
	tests := []struct {
		width, bytesPerPixel int
		stride, padding      int
	}{
		{1, 3, 4, 1},
		{2, 3, 8, 2},
		{3, 3, 12, 3},
		{4, 3, 12, 0},
		{5, 3, 16, 1},
		{1, 4, 4, 0},
		{3, 4, 12, 0},
	}

	for _, tt := range tests {
		stride, padding := rowLayout(tt.width, tt.bytesPerPixel)
		if stride != tt.stride || padding != tt.padding {
			t.Errorf("rowLayout(%d, %d) = (%d, %d), want (%d, %d)",
				tt.width, tt.bytesPerPixel, stride, padding, tt.stride, tt.padding)
		}
	}
}

func TestSaveLoadFilledImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fill.bmp")
	img := graphics.NewFilledImage(4, 3, graphics.NewPixel(0.2, 0.3, 0.4))

	if err := Save(img, path, 24); err != nil {
		t.Fatalf("Save() = %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}

	if got.Width() != 4 || got.Height() != 3 {
		t.Fatalf("size = %dx%d, want 4x3", got.Width(), got.Height())
	}
	p, ok := got.Pixel(0, 0)
	if !ok || !approx(p.R, 0.2) || !approx(p.G, 0.3) || !approx(p.B, 0.4) {
		t.Errorf("Pixel(0, 0) = %v, want ~{0.2 0.3 0.4}", p)
	}
	// 24 bit rows carry no alpha
	if p.A != 0 {
		t.Errorf("Pixel(0, 0).A = %v, want 0 after a 24 bit round trip", p.A)
	}
}

func TestRoundTrip(t *testing.T) {
	sizes := []struct{ width, height int }{{1, 1}, {1, 4}, {2, 3}, {3, 2}, {4, 3}, {5, 5}}

	for _, bpp := range []int{24, 32} {
		for _, s := range sizes {
			src := patternImage(t, s.width, s.height)

			var buf bytes.Buffer
			if err := Encode(&buf, src, bpp); err != nil {
				t.Fatalf("Encode(%dx%d, %d) = %v", s.width, s.height, bpp, err)
			}
			got, err := Decode(&buf)
			if err != nil {
				t.Fatalf("Decode(%dx%d, %d) = %v", s.width, s.height, bpp, err)
			}
			if got.Width() != s.width || got.Height() != s.height {
				t.Fatalf("%d bpp: size = %dx%d, want %dx%d", bpp, got.Width(), got.Height(), s.width, s.height)
			}

			for y := 0; y < s.height; y++ {
				for x := 0; x < s.width; x++ {
					want, _ := src.Pixel(x, y)
					p, _ := got.Pixel(x, y)
					if !approx(p.R, want.R) || !approx(p.G, want.G) || !approx(p.B, want.B) {
						t.Errorf("%d bpp %dx%d: Pixel(%d, %d) = %v, want %v", bpp, s.width, s.height, x, y, p, want)
					}
					wantA := float32(0)
					if bpp == 32 {
						wantA = want.A
					}
					if !approx(p.A, wantA) {
						t.Errorf("%d bpp: Pixel(%d, %d).A = %v, want %v", bpp, x, y, p.A, wantA)
					}
				}
			}
		}
	}
}

func TestEncodeLayout(t *testing.T) {
	tests := []struct {
		width, height, bpp int
		stride             int
	}{
		{1, 2, 24, 4},
		{4, 2, 24, 12},
		{3, 2, 32, 12},
	}

	for _, tt := range tests {
		img := patternImage(t, tt.width, tt.height)
		var buf bytes.Buffer
		if err := Encode(&buf, img, tt.bpp); err != nil {
			t.Fatalf("Encode() = %v", err)
		}
		data := buf.Bytes()
		le := binary.LittleEndian

		sizeImage := tt.stride * tt.height
		if len(data) != PixelOffset+sizeImage {
			t.Fatalf("%dx%d@%d: len = %d, want %d", tt.width, tt.height, tt.bpp, len(data), PixelOffset+sizeImage)
		}

		fields := []struct {
			name string
			got  uint32
			want uint32
		}{
			{"file size", le.Uint32(data[2:]), uint32(PixelOffset + sizeImage)},
			{"reserved", le.Uint32(data[6:]), 0},
			{"offset", le.Uint32(data[10:]), PixelOffset},
			{"info size", le.Uint32(data[14:]), InfoHeaderSize},
			{"width", le.Uint32(data[18:]), uint32(tt.width)},
			{"height", le.Uint32(data[22:]), uint32(tt.height)},
			{"planes", uint32(le.Uint16(data[26:])), 1},
			{"bit count", uint32(le.Uint16(data[28:])), uint32(tt.bpp)},
			{"compression", le.Uint32(data[30:]), BIRGB},
			{"image size", le.Uint32(data[34:]), uint32(sizeImage)},
			{"x ppm", le.Uint32(data[38:]), 0},
			{"y ppm", le.Uint32(data[42:]), 0},
			{"colors used", le.Uint32(data[46:]), 0},
			{"colors important", le.Uint32(data[50:]), 0},
		}
		if string(data[:2]) != "BM" {
			t.Errorf("signature = %q, want BM", data[:2])
		}
		for _, f := range fields {
			if f.got != f.want {
				t.Errorf("%dx%d@%d: %s = %d, want %d", tt.width, tt.height, tt.bpp, f.name, f.got, f.want)
			}
		}

		// First stored row is the bottom image row, in B,G,R[,A] order
		bytesPerPixel := tt.bpp / 8
		row := data[PixelOffset : PixelOffset+tt.stride]
		r, g, b, a := pattern(0, tt.height-1)
		if row[0] != b || row[1] != g || row[2] != r {
			t.Errorf("first stored pixel = %v, want B,G,R = %d,%d,%d", row[:3], b, g, r)
		}
		if bytesPerPixel == 4 && row[3] != a {
			t.Errorf("first stored alpha = %d, want %d", row[3], a)
		}
		for i := tt.width * bytesPerPixel; i < tt.stride; i++ {
			if row[i] != 0 {
				t.Errorf("padding byte %d = %d, want 0", i, row[i])
			}
		}
	}
}

func TestDecodeBadSignature(t *testing.T) {
	// Only the signature is present: nothing past it may be needed to reject the file
	for _, data := range [][]byte{[]byte("XY"), []byte("MB"), []byte("BA")} {
		_, err := Decode(bytes.NewReader(data))
		if !errors.Is(err, ErrNotBitmap) {
			t.Errorf("Decode(%q) = %v, want ErrNotBitmap", data, err)
		}
	}
}

func TestDecodeRejectsHeaders(t *testing.T) {
	pixels := make([]byte, 64)
	tests := []struct {
		name   string
		header rawHeader
		want   error
	}{
		{"16 bpp", rawHeader{width: 2, height: 2, bitCount: 16}, ErrUnsupportedBitCount},
		{"8 bpp", rawHeader{width: 2, height: 2, bitCount: 8}, ErrUnsupportedBitCount},
		{"rle", rawHeader{width: 2, height: 2, bitCount: 24, compression: 1}, ErrUnsupportedCompression},
		{"bitfields", rawHeader{width: 2, height: 2, bitCount: 32, compression: 3}, ErrUnsupportedCompression},
		{"zero width", rawHeader{width: 0, height: 2, bitCount: 24}, ErrInvalidDimensions},
		{"zero height", rawHeader{width: 2, height: 0, bitCount: 24}, ErrInvalidDimensions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Decode(bytes.NewReader(rawBitmap(tt.header, pixels)))
			if img != nil || !errors.Is(err, tt.want) {
				t.Errorf("Decode() = (%v, %v), want (nil, %v)", img, err, tt.want)
			}
		})
	}
}

func TestDecodeTruncated(t *testing.T) {
	full := rawBitmap(rawHeader{width: 2, height: 2, bitCount: 24}, make([]byte, 16))

	for _, n := range []int{5, 20, PixelOffset, PixelOffset + 10} {
		if _, err := Decode(bytes.NewReader(full[:n])); err == nil {
			t.Errorf("Decode(first %d bytes) succeeded, want error", n)
		}
	}

	_, err := Decode(bytes.NewReader(full[:PixelOffset+10]))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("Decode(partial row) = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestDecodeHandBuilt(t *testing.T) {
	// 1x2 at 24 bpp: every row is 3 bytes + 1 padding byte, bottom row first
	data := rawBitmap(rawHeader{width: 1, height: 2, bitCount: 24}, []byte{
		255, 0, 0, 0, // bottom: blue
		0, 0, 255, 0, // top: red
	})

	img, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() = %v", err)
	}
	if top, _ := img.Pixel(0, 0); top != (graphics.Pixel{R: 1}) {
		t.Errorf("Pixel(0, 0) = %v, want red", top)
	}
	if bottom, _ := img.Pixel(0, 1); bottom != (graphics.Pixel{B: 1}) {
		t.Errorf("Pixel(0, 1) = %v, want blue", bottom)
	}
}

func TestDecodeSkipsToPixelOffset(t *testing.T) {
	data := rawBitmap(rawHeader{width: 1, height: 1, bitCount: 32, offBits: PixelOffset + 6}, []byte{10, 20, 30, 40})

	img, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() = %v", err)
	}
	p, _ := img.Pixel(0, 0)
	if want := graphics.PixelFromBytes(30, 20, 10, 40); p != want {
		t.Errorf("Pixel(0, 0) = %v, want %v", p, want)
	}
}

func TestEncodeRejects(t *testing.T) {
	var buf bytes.Buffer
	img := graphics.NewFilledImage(2, 2, graphics.White())

	for _, bpp := range []int{0, 8, 16, 64} {
		if err := Encode(&buf, img, bpp); !errors.Is(err, ErrUnsupportedBitCount) {
			t.Errorf("Encode(bpp %d) = %v, want ErrUnsupportedBitCount", bpp, err)
		}
	}
	if err := Encode(&buf, &graphics.Image{}, 24); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("Encode(empty image) = %v, want ErrInvalidImage", err)
	}
	if err := Encode(&buf, nil, 24); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("Encode(nil) = %v, want ErrInvalidImage", err)
	}
	if buf.Len() != 0 {
		t.Errorf("rejected encodes wrote %d bytes", buf.Len())
	}
}

type failingWriter struct{ after int }

func (w *failingWriter) Write(p []byte) (int, error) {
	if len(p) > w.after {
		return 0, errors.New("disk full")
	}
	w.after -= len(p)
	return len(p), nil
}

func TestEncodeWriteError(t *testing.T) {
	img := graphics.NewFilledImage(64, 64, graphics.White())
	if err := Encode(&failingWriter{after: 100}, img, 24); err == nil {
		t.Error("Encode to failing writer succeeded, want error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.bmp"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) = %v, want os.ErrNotExist", err)
	}
}

func TestLoadBadSignatureFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.bmp")
	if err := os.WriteFile(path, []byte("GIF89a"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrNotBitmap) {
		t.Errorf("Load(gif) = %v, want ErrNotBitmap", err)
	}
}

func TestSaveRefusesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exists.bmp")
	if err := os.WriteFile(path, []byte("keep me"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := Save(graphics.NewFilledImage(2, 2, graphics.White()), path, 24)
	if !errors.Is(err, os.ErrExist) {
		t.Errorf("Save(existing) = %v, want os.ErrExist", err)
	}
	if data, _ := os.ReadFile(path); string(data) != "keep me" {
		t.Errorf("existing file was modified: %q", data)
	}
}

func TestSaveRejectsBeforeCreatingFile(t *testing.T) {
	dir := t.TempDir()

	if err := Save(&graphics.Image{}, filepath.Join(dir, "invalid.bmp"), 24); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("Save(invalid image) = %v, want ErrInvalidImage", err)
	}
	if err := Save(graphics.NewFilledImage(1, 1, graphics.White()), filepath.Join(dir, "bpp.bmp"), 16); !errors.Is(err, ErrUnsupportedBitCount) {
		t.Errorf("Save(16 bpp) = %v, want ErrUnsupportedBitCount", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("rejected saves left %d files behind", len(entries))
	}
}

func TestDecodeRejectsOversizedHeader(t *testing.T) {
	// Header claims a 0xFFFFFFFF x 1 image but carries one row of 4 bytes
	data := rawBitmap(rawHeader{width: math.MaxUint32, height: 1, bitCount: 24}, make([]byte, 4))

	_, err := Decode(bytes.NewReader(data))
	if !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, graphics.ErrOverflow) {
		t.Errorf("Decode(oversized) = %v, want io.ErrUnexpectedEOF", err)
	}

	path := filepath.Join(t.TempDir(), "huge.bmp")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = Load(path)
	if !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, graphics.ErrOverflow) {
		t.Errorf("Load(oversized) = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestDecodeMissingRowsBeforeAllocating(t *testing.T) {
	// 3 rows declared, 2 present
	data := rawBitmap(rawHeader{width: 2, height: 3, bitCount: 24}, make([]byte, 16))

	_, err := Decode(bytes.NewReader(data))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("Decode(missing row) = %v, want io.ErrUnexpectedEOF", err)
	}

	// unknown length: the row reader catches it instead
	_, err = Decode(io.MultiReader(bytes.NewReader(data)))
	if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("Decode(stream, missing row) = %v, want EOF", err)
	}
}

func TestEncodePaddedSizeFields(t *testing.T) {
	// 3 pixels at 24 bpp is 9 bytes, padded to a 12 byte stride
	var buf bytes.Buffer
	if err := Encode(&buf, graphics.NewFilledImage(3, 2, graphics.White()), 24); err != nil {
		t.Fatalf("Encode() = %v", err)
	}
	data := buf.Bytes()

	if got := binary.LittleEndian.Uint32(data[2:6]); got != uint32(len(data)) || got != PixelOffset+24 {
		t.Errorf("file size = %d, want %d (len %d)", got, PixelOffset+24, len(data))
	}
	if got := binary.LittleEndian.Uint32(data[34:38]); got != 24 {
		t.Errorf("image size = %d, want 24", got)
	}
}
