package graphics

// Image is a width x height grid of pixels backed by an owned Buffer.
// Pixels are stored row-major, row 0 at the top: index = y*width + x.
type Image struct {
	width  int
	height int
	buffer *Buffer
}

// Wraps buf (taking ownership) as a width x height image.
// The result is invalid, not nil, when buf is too small or the size overflows;
// check IsValid before using it.
func NewImage(buf *Buffer, width, height int) *Image {
	return &Image{width: width, height: height, buffer: buf}
}

// Creates a width x height image filled with one color.
// Nothing is allocated when the size is zero or overflows, the image is then invalid.
func NewFilledImage(width, height int, fill Pixel) *Image {
	size, ok := MulSize(width, height)
	if !ok || size == 0 {
		return &Image{width: width, height: height}
	}
	return &Image{width: width, height: height, buffer: NewFilledBuffer(size, fill)}
}

// Takes ownership of buf. Fails if width*height overflows or buf holds fewer pixels.
func CreateImage(buf *Buffer, width, height int) (*Image, error) {
	size, ok := MulSize(width, height)
	if !ok {
		return nil, ErrOverflow
	}
	if !buf.IsValid() {
		return nil, ErrInvalidBuffer
	}
	if buf.Len() < size {
		return nil, ErrSizeMismatch
	}

	img := &Image{width: width, height: height, buffer: buf}
	if !img.IsValid() {
		return nil, ErrInvalidImage
	}
	return img, nil
}

// Deep-copies buf into a new image. buf must hold exactly width*height pixels.
func CopyImage(buf *Buffer, width, height int) (*Image, error) {
	size, ok := MulSize(width, height)
	if !ok {
		return nil, ErrOverflow
	}
	if !buf.IsValid() {
		return nil, ErrInvalidBuffer
	}
	if buf.Len() != size {
		return nil, ErrSizeMismatch
	}

	return CreateImage(buf.Clone(), width, height)
}

// Copies a plain pixel slice into a new image. len(pixels) must equal width*height.
func CreateImageFromPixels(pixels []Pixel, width, height int) (*Image, error) {
	size, ok := MulSize(width, height)
	if !ok {
		return nil, ErrOverflow
	}
	if len(pixels) != size {
		return nil, ErrSizeMismatch
	}

	buf := NewBuffer(size)
	if err := buf.SetPixels(pixels, size, 0); err != nil {
		return nil, err
	}
	return CreateImage(buf, width, height)
}

func (img *Image) Width() int {
	if img == nil {
		return 0
	}
	return img.width
}

func (img *Image) Height() int {
	if img == nil {
		return 0
	}
	return img.height
}

// The backing buffer (owned by the image, do not hand it to another image)
func (img *Image) Buffer() *Buffer {
	if img == nil {
		return nil
	}
	return img.buffer
}

// Reports whether the buffer is valid and covers width*height pixels
func (img *Image) IsValid() bool {
	if img == nil || !img.buffer.IsValid() {
		return false
	}
	size, ok := MulSize(img.width, img.height)
	if !ok {
		return false
	}
	return img.buffer.Len() >= size
}

// Changes the dimensions over the same buffer.
// Fails, leaving the image untouched, if the buffer cannot cover the new size.
func (img *Image) Reshape(width, height int) error {
	size, ok := MulSize(width, height)
	if !ok {
		return ErrOverflow
	}
	if !img.buffer.IsValid() {
		return ErrInvalidBuffer
	}
	if size == 0 || img.buffer.Len() < size {
		return ErrSizeMismatch
	}

	img.width, img.height = width, height
	return nil
}

func (img *Image) index(x, y int) (int, bool) {
	// dimensions and buffer may have drifted apart, check the invariant first
	if !img.IsValid() {
		return 0, false
	}
	if x < 0 || y < 0 || x >= img.width || y >= img.height {
		return 0, false
	}
	return y*img.width + x, true
}

// Reads the pixel at column x, row y
func (img *Image) Pixel(x, y int) (Pixel, bool) {
	i, ok := img.index(x, y)
	if !ok {
		return Pixel{}, false
	}
	return img.buffer.Pixel(i)
}

// Writes the pixel at column x, row y
func (img *Image) SetPixel(x, y int, p Pixel) error {
	if !img.IsValid() {
		return ErrInvalidImage
	}
	i, ok := img.index(x, y)
	if !ok {
		return ErrOutOfBounds
	}
	return img.buffer.SetPixel(p, i)
}

// Returns a copy of row y
func (img *Image) Row(y int) ([]Pixel, bool) {
	i, ok := img.index(0, y)
	if !ok {
		return nil, false
	}
	return img.buffer.Pixels(i, img.width)
}

// Overwrites row y with the first width pixels of row
func (img *Image) SetRow(y int, row []Pixel) error {
	if !img.IsValid() {
		return ErrInvalidImage
	}
	i, ok := img.index(0, y)
	if !ok {
		return ErrOutOfBounds
	}
	return img.buffer.SetPixels(row, img.width, i)
}

// Returns a deep copy (new buffer, same dimensions)
func (img *Image) Clone() *Image {
	if img == nil {
		return &Image{}
	}
	dup := &Image{width: img.width, height: img.height}
	if img.buffer != nil {
		dup.buffer = img.buffer.Clone()
	}
	return dup
}

// Moves the pixels into a new image, leaving img empty (0 x 0, no buffer)
func (img *Image) Take() *Image {
	if img == nil {
		return &Image{}
	}
	moved := &Image{width: img.width, height: img.height, buffer: img.buffer}
	img.width, img.height, img.buffer = 0, 0, nil
	return moved
}
