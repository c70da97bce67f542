package graphics

// Buffer is a fixed-length, owned array of pixels.
// The length is set at creation and never changes.
type Buffer struct {
	pixels []Pixel
}

// Creates a buffer of length pixels, all white
func NewBuffer(length int) *Buffer {
	return NewFilledBuffer(length, White())
}

// Creates a buffer of length pixels, every one set to fill.
// A length <= 0 gives an empty (invalid) buffer with nothing allocated.
func NewFilledBuffer(length int, fill Pixel) *Buffer {
	if length <= 0 {
		return &Buffer{}
	}

	pixels := make([]Pixel, length)
	for i := range pixels {
		pixels[i] = fill
	}
	return &Buffer{pixels: pixels}
}

// Number of pixels in the buffer (0 for a nil buffer)
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	return len(b.pixels)
}

// A buffer is valid when it holds at least one pixel
func (b *Buffer) IsValid() bool {
	return b.Len() > 0
}

// Copies count pixels from source into the buffer, starting at start.
// Nothing is written unless the whole range fits.
func (b *Buffer) SetPixels(source []Pixel, count, start int) error {
	if !b.IsValid() {
		return ErrInvalidBuffer
	}
	if count <= 0 || len(source) < count {
		return ErrSizeMismatch
	}
	// start+count could overflow, compare against the remaining room instead
	if start < 0 || start > b.Len() || count > b.Len()-start {
		return ErrOutOfBounds
	}

	copy(b.pixels[start:start+count], source[:count])
	return nil
}

// Writes a single pixel at pos
func (b *Buffer) SetPixel(p Pixel, pos int) error {
	if !b.IsValid() {
		return ErrInvalidBuffer
	}
	if pos < 0 || pos >= b.Len() {
		return ErrOutOfBounds
	}

	b.pixels[pos] = p
	return nil
}

// Reads the pixel at pos. ok is false for an invalid buffer or position.
func (b *Buffer) Pixel(pos int) (p Pixel, ok bool) {
	if !b.IsValid() || pos < 0 || pos >= b.Len() {
		return Pixel{}, false
	}
	return b.pixels[pos], true
}

// Returns a deep copy of the buffer
func (b *Buffer) Clone() *Buffer {
	if !b.IsValid() {
		return &Buffer{}
	}

	pixels := make([]Pixel, len(b.pixels))
	copy(pixels, b.pixels)
	return &Buffer{pixels: pixels}
}

// Returns a copy of count pixels starting at start
func (b *Buffer) Pixels(start, count int) ([]Pixel, bool) {
	if !b.IsValid() || count < 0 || start < 0 || start > b.Len() || count > b.Len()-start {
		return nil, false
	}

	out := make([]Pixel, count)
	copy(out, b.pixels[start:start+count])
	return out, true
}
