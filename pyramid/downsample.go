package pyramid

import (
	"errors"
	"fmt"

	"github.com/JaneliaSciComp/catmaid-tools/pixel"
)

var ErrBufferMismatch = errors.New("pyramid: buffer dimensions mismatch")

// Quadrant indexes one source tile position inside a Mosaic.
type Quadrant int

const (
	TopLeft Quadrant = iota
	TopRight
	BottomLeft
	BottomRight
)

// Mosaic is a transient 2x2 composite of source tiles at scale level s-1
// covering the footprint of one tile at level s. Quadrants that could not
// be read stay on the placeholder: their samples are zero and they do not
// count as data. A Mosaic is meant to be reused across loop iterations via
// Reset; it must be owned by a single goroutine.
type Mosaic struct {
	buf     *pixel.Buffer
	present [4]bool
}

// NewMosaic allocates a mosaic for 2x2 groups of tileWidth x tileHeight tiles.
func NewMosaic(tileWidth, tileHeight int, mode pixel.Mode) *Mosaic {
	return &Mosaic{buf: pixel.NewBuffer(2*tileWidth, 2*tileHeight, mode)}
}

// Reset clears all quadrants back to the placeholder.
func (m *Mosaic) Reset() {
	m.buf.Fill(0)
	m.present = [4]bool{}
}

// HasData reports whether at least one quadrant holds a real tile.
func (m *Mosaic) HasData() bool {
	return m.present[TopLeft] || m.present[TopRight] || m.present[BottomLeft] || m.present[BottomRight]
}

// SetQuadrant composites src into quadrant q and marks it as real data.
// A nil src leaves the quadrant on the placeholder. src must match the
// tile dimensions and color mode the mosaic was created with.
func (m *Mosaic) SetQuadrant(q Quadrant, src *pixel.Buffer) error {
	if src == nil {
		return nil
	}
	w, h := m.buf.W/2, m.buf.H/2
	if src.W != w || src.H != h || src.Mode != m.buf.Mode {
		return fmt.Errorf("%w: quadrant %vx%v %v, want %vx%v %v",
			ErrBufferMismatch, src.W, src.H, src.Mode, w, h, m.buf.Mode)
	}

	ch := m.buf.Mode.Channels()
	srcStride := src.Stride()
	dstStride := m.buf.Stride()
	x0 := int(q%2) * w * ch
	y0 := int(q/2) * h

	for y := 0; y < h; y++ {
		dst := m.buf.Pix[(y0+y)*dstStride+x0:]
		copy(dst[:srcStride], src.Pix[y*srcStride:(y+1)*srcStride])
	}

	m.present[q] = true
	return nil
}

// Downsample box-filters the mosaic into dst, which must be one tile in
// size. Each output sample is the mean of the corresponding 2x2 source
// block, rounded to nearest with ties away from zero. The returned empty
// flag is true when no quadrant held real data, so the caller can suppress
// tiles that carry no information.
func (m *Mosaic) Downsample(dst *pixel.Buffer) (empty bool, err error) {
	if dst.W*2 != m.buf.W || dst.H*2 != m.buf.H || dst.Mode != m.buf.Mode {
		return false, fmt.Errorf("%w: target %vx%v %v, want %vx%v %v",
			ErrBufferMismatch, dst.W, dst.H, dst.Mode, m.buf.W/2, m.buf.H/2, m.buf.Mode)
	}

	ch := m.buf.Mode.Channels()
	srcStride := m.buf.Stride()
	dstStride := dst.Stride()

	for y := 0; y < dst.H; y++ {
		r0 := m.buf.Pix[(2*y)*srcStride : (2*y+1)*srcStride]
		r1 := m.buf.Pix[(2*y+1)*srcStride : (2*y+2)*srcStride]
		out := dst.Pix[y*dstStride : (y+1)*dstStride]
		for x := 0; x < dst.W; x++ {
			for c := 0; c < ch; c++ {
				i := 2*x*ch + c
				sum := uint32(r0[i]) + uint32(r0[i+ch]) + uint32(r1[i]) + uint32(r1[i+ch])
				out[x*ch+c] = uint8((sum + 2) / 4)
			}
		}
	}

	return !m.HasData(), nil
}
