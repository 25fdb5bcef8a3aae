package pyramid_test

import (
	"errors"
	"testing"

	"github.com/JaneliaSciComp/catmaid-tools/internal"
	"github.com/JaneliaSciComp/catmaid-tools/pixel"
	"github.com/JaneliaSciComp/catmaid-tools/pyramid"
	"github.com/google/go-cmp/cmp"
)

func TestDownsampleAveragesQuadrants(t *testing.T) {
	m := pyramid.NewMosaic(2, 2, pixel.Gray)

	for q, v := range map[pyramid.Quadrant]uint8{
		pyramid.TopLeft:     10,
		pyramid.TopRight:    20,
		pyramid.BottomLeft:  30,
		pyramid.BottomRight: 40,
	} {
		if err := m.SetQuadrant(q, internal.SolidBuffer(2, 2, pixel.Gray, v)); err != nil {
			t.Fatalf("SetQuadrant(%v) failed: %v", q, err)
		}
	}

	out := pixel.NewBuffer(2, 2, pixel.Gray)
	empty, err := m.Downsample(out)
	if err != nil {
		t.Fatalf("Downsample failed: %v", err)
	}
	if empty {
		t.Errorf("Downsample reported empty for real data")
	}

	// Each output pixel covers one 2x2 block lying wholly inside a quadrant.
	if got, want := out.Pix, []uint8{10, 20, 30, 40}; !cmp.Equal(got, want) {
		t.Errorf("Downsample = %v, want = %v", got, want)
	}
}

// With 1x1 tiles the single output sample is the mean of the four quadrant
// samples: rounded to nearest, ties away from zero.
func TestDownsampleRounding(t *testing.T) {
	for _, tc := range []struct {
		values [4]uint8
		want   uint8
	}{
		{[4]uint8{1, 2, 2, 2}, 2}, // 1.75
		{[4]uint8{1, 1, 2, 2}, 2}, // 1.5, tie
		{[4]uint8{0, 0, 0, 1}, 0}, // 0.25
		{[4]uint8{0, 0, 1, 1}, 1}, // 0.5, tie
		{[4]uint8{255, 255, 255, 255}, 255},
	} {
		m := pyramid.NewMosaic(1, 1, pixel.Gray)
		for q := pyramid.TopLeft; q <= pyramid.BottomRight; q++ {
			if err := m.SetQuadrant(q, internal.SolidBuffer(1, 1, pixel.Gray, tc.values[q])); err != nil {
				t.Fatalf("SetQuadrant(%v) failed: %v", q, err)
			}
		}

		out := pixel.NewBuffer(1, 1, pixel.Gray)
		if _, err := m.Downsample(out); err != nil {
			t.Fatalf("Downsample failed: %v", err)
		}
		if got, want := out.Pix[0], tc.want; got != want {
			t.Errorf("Downsample(%v) = %v, want = %v", tc.values, got, want)
		}
	}
}

func TestDownsampleEmptiness(t *testing.T) {
	m := pyramid.NewMosaic(2, 2, pixel.RGB)
	out := pixel.NewBuffer(2, 2, pixel.RGB)

	empty, err := m.Downsample(out)
	if err != nil {
		t.Fatalf("Downsample failed: %v", err)
	}
	if !empty {
		t.Errorf("Downsample with no quadrants: empty = false, want = true")
	}
	if got, want := out.Pix, make([]uint8, len(out.Pix)); !cmp.Equal(got, want) {
		t.Errorf("placeholder mosaic downsampled to non-zero samples: %v", got)
	}

	// A single all-black quadrant is real data, not emptiness.
	if err := m.SetQuadrant(pyramid.BottomRight, internal.SolidBuffer(2, 2, pixel.RGB, 0)); err != nil {
		t.Fatalf("SetQuadrant failed: %v", err)
	}
	empty, err = m.Downsample(out)
	if err != nil {
		t.Fatalf("Downsample failed: %v", err)
	}
	if empty {
		t.Errorf("Downsample with one black quadrant: empty = true, want = false")
	}
}

func TestDownsampleReset(t *testing.T) {
	m := pyramid.NewMosaic(1, 1, pixel.Gray)
	if err := m.SetQuadrant(pyramid.TopLeft, internal.SolidBuffer(1, 1, pixel.Gray, 200)); err != nil {
		t.Fatalf("SetQuadrant failed: %v", err)
	}
	m.Reset()

	out := pixel.NewBuffer(1, 1, pixel.Gray)
	empty, err := m.Downsample(out)
	if err != nil {
		t.Fatalf("Downsample failed: %v", err)
	}
	if !empty {
		t.Errorf("Downsample after Reset: empty = false, want = true")
	}
	if got, want := out.Pix[0], uint8(0); got != want {
		t.Errorf("Downsample after Reset = %v, want = %v", got, want)
	}
}

func TestDownsampleBufferMismatch(t *testing.T) {
	m := pyramid.NewMosaic(2, 2, pixel.Gray)

	if err := m.SetQuadrant(pyramid.TopLeft, internal.SolidBuffer(4, 4, pixel.Gray, 1)); !errors.Is(err, pyramid.ErrBufferMismatch) {
		t.Errorf("SetQuadrant(wrong size) = %v, want ErrBufferMismatch", err)
	}
	if err := m.SetQuadrant(pyramid.TopLeft, internal.SolidBuffer(2, 2, pixel.RGB, 1)); !errors.Is(err, pyramid.ErrBufferMismatch) {
		t.Errorf("SetQuadrant(wrong mode) = %v, want ErrBufferMismatch", err)
	}
	if _, err := m.Downsample(pixel.NewBuffer(4, 4, pixel.Gray)); !errors.Is(err, pyramid.ErrBufferMismatch) {
		t.Errorf("Downsample(wrong target) = %v, want ErrBufferMismatch", err)
	}
}
