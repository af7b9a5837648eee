// Package vision prepares uploaded images for the skin-lesion classifier and
// maps its output back to disease labels.
package vision

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"
)

const (
	// Side is the fixed square input size the model expects.
	Side = 224
	// Channels is the RGB channel count; alpha is dropped, grayscale expanded.
	Channels = 3
)

// ErrDecode is returned when the uploaded bytes cannot be parsed as an image.
var ErrDecode = errors.New("vision: decode image")

// Tensor is a prepared model input: a batch of one 224x224 RGB image in NHWC
// layout with values scaled to [0,1].
type Tensor struct {
	Data []float32
}

// Shape returns the NHWC dimensions of the tensor.
func (t *Tensor) Shape() []int64 {
	return []int64{1, Side, Side, Channels}
}

// Prepare decodes raw image bytes and normalizes them into a Tensor.
// The transformation is deterministic: identical bytes yield identical data.
func Prepare(imageBytes []byte) (*Tensor, error) {
	img, _, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	// Lanczos3 is a fixed deterministic filter; resizing after decode also
	// collapses palette and grayscale sources into full color on read-out.
	resized := resize.Resize(Side, Side, img, resize.Lanczos3)

	data := make([]float32, Side*Side*Channels)
	for y := 0; y < Side; y++ {
		for x := 0; x < Side; x++ {
			r, g, b, _ := resized.At(x, y).RGBA()
			i := (y*Side + x) * Channels
			data[i] = float32(r) / 65535.0
			data[i+1] = float32(g) / 65535.0
			data[i+2] = float32(b) / 65535.0
		}
	}

	return &Tensor{Data: data}, nil
}
