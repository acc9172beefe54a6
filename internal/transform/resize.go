package transform

import (
	"bytes"
	"fmt"
	"image"

	// Register the decoders for the input formats we accept. The blank
	// imports wire them into image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

// Derived artifacts always have the same shape and encoding, regardless of
// the input format.
const (
	TargetWidth  = 800
	TargetHeight = 600

	// OutputContentType is the content type of every derived artifact.
	OutputContentType = "image/jpeg"
)

// Resize decodes buffer, scales it to exactly TargetWidth x TargetHeight and
// re-encodes it as JPEG. Malformed or unsupported input fails the decode.
func Resize(buffer []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	resized := imaging.Resize(img, TargetWidth, TargetHeight, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, resized, imaging.JPEG); err != nil {
		return nil, fmt.Errorf("error while resizing: %w", err)
	}
	return buf.Bytes(), nil
}
