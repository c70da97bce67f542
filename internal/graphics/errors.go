package graphics

import "errors"

var (
	ErrOverflow      = errors.New("graphics: width*height overflows")
	ErrSizeMismatch  = errors.New("graphics: buffer size does not match dimensions")
	ErrOutOfBounds   = errors.New("graphics: position out of bounds")
	ErrInvalidBuffer = errors.New("graphics: invalid pixel buffer")
	ErrInvalidImage  = errors.New("graphics: invalid image")
)
