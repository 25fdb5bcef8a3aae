// Package pixel provides in-memory pixel buffers for image tiles and
// conversion between buffers and encoded tile images.
package pixel

// Mode is the color mode of a Buffer.
type Mode int

const (
	RGB Mode = iota
	Gray
)

// Channels returns the number of samples per pixel.
func (m Mode) Channels() int {
	if m == Gray {
		return 1
	}
	return 3
}

func (m Mode) String() string {
	if m == Gray {
		return "gray"
	}
	return "rgb"
}

// Buffer is a rectangular grid of 8-bit samples. Pix holds the samples
// row-major, Channels() samples per pixel, no padding between rows.
type Buffer struct {
	W, H int
	Mode Mode
	Pix  []uint8
}

func NewBuffer(w, h int, mode Mode) *Buffer {
	return &Buffer{W: w, H: h, Mode: mode, Pix: make([]uint8, w*h*mode.Channels())}
}

// Stride returns the number of samples per row.
func (b *Buffer) Stride() int {
	return b.W * b.Mode.Channels()
}

// Fill sets every sample of the buffer to v.
func (b *Buffer) Fill(v uint8) {
	for i := range b.Pix {
		b.Pix[i] = v
	}
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &Buffer{W: b.W, H: b.H, Mode: b.Mode, Pix: pix}
}
