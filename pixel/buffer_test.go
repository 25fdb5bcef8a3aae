package pixel_test

import (
	"testing"

	"github.com/JaneliaSciComp/catmaid-tools/pixel"
	"github.com/google/go-cmp/cmp"
)

func TestModeChannels(t *testing.T) {
	if got, want := pixel.RGB.Channels(), 3; got != want {
		t.Errorf("RGB.Channels() = %v, want = %v", got, want)
	}
	if got, want := pixel.Gray.Channels(), 1; got != want {
		t.Errorf("Gray.Channels() = %v, want = %v", got, want)
	}
}

func TestBufferFillClone(t *testing.T) {
	buf := pixel.NewBuffer(2, 3, pixel.RGB)
	if got, want := len(buf.Pix), 2*3*3; got != want {
		t.Fatalf("len(Pix) = %v, want = %v", got, want)
	}
	if got, want := buf.Stride(), 6; got != want {
		t.Errorf("Stride() = %v, want = %v", got, want)
	}

	buf.Fill(42)
	clone := buf.Clone()
	if !cmp.Equal(clone.Pix, buf.Pix) {
		t.Errorf("Clone pixels mismatch")
	}

	clone.Pix[0] = 7
	if buf.Pix[0] != 42 {
		t.Errorf("Clone shares backing storage with original")
	}
}
