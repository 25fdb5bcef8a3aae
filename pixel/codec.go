package pixel

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
)

var ErrUnsupportedFormat = errors.New("pixel: unsupported image format")

// Decode parses an encoded tile image into a buffer with the given mode.
// The source image is converted to the requested mode sample by sample.
func Decode(data []byte, mode Mode) (*Buffer, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("pixel: decode tile: %w", err)
	}

	bounds := img.Bounds()
	buf := NewBuffer(bounds.Dx(), bounds.Dy(), mode)
	stride := buf.Stride()

	for y := 0; y < buf.H; y++ {
		row := buf.Pix[y*stride : (y+1)*stride]
		for x := 0; x < buf.W; x++ {
			c := img.At(bounds.Min.X+x, bounds.Min.Y+y)
			if mode == Gray {
				row[x] = color.GrayModel.Convert(c).(color.Gray).Y
			} else {
				r, g, b, _ := c.RGBA()
				row[3*x+0] = uint8(r >> 8)
				row[3*x+1] = uint8(g >> 8)
				row[3*x+2] = uint8(b >> 8)
			}
		}
	}

	return buf, nil
}

// Encode serializes buf into the given image format: "jpg"/"jpeg" (quality
// in (0, 1]) or "png" (quality ignored).
func Encode(buf *Buffer, format string, quality float32) ([]byte, error) {
	img := toImage(buf)

	var out bytes.Buffer
	switch format {
	case "jpg", "jpeg":
		opts := &jpeg.Options{Quality: int(quality*100 + 0.5)}
		if err := jpeg.Encode(&out, img, opts); err != nil {
			return nil, fmt.Errorf("pixel: encode tile: %w", err)
		}
	case "png":
		if err := png.Encode(&out, img); err != nil {
			return nil, fmt.Errorf("pixel: encode tile: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	return out.Bytes(), nil
}

func toImage(buf *Buffer) image.Image {
	rect := image.Rect(0, 0, buf.W, buf.H)
	stride := buf.Stride()

	if buf.Mode == Gray {
		img := image.NewGray(rect)
		for y := 0; y < buf.H; y++ {
			copy(img.Pix[y*img.Stride:], buf.Pix[y*stride:(y+1)*stride])
		}
		return img
	}

	img := image.NewRGBA(rect)
	for y := 0; y < buf.H; y++ {
		row := buf.Pix[y*stride : (y+1)*stride]
		for x := 0; x < buf.W; x++ {
			i := y*img.Stride + 4*x
			img.Pix[i+0] = row[3*x+0]
			img.Pix[i+1] = row[3*x+1]
			img.Pix[i+2] = row[3*x+2]
			img.Pix[i+3] = 0xff
		}
	}
	return img
}
