// AngelaMos | 2026
// thumbnail.go

package place

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

var errUnsupportedImage = errors.New("unsupported image type")

const thumbnailJPEGQuality = 80

//nolint:gochecknoglobals
var (
	imageDecoders = map[string]func(io.Reader) (image.Image, error){
		ContentTypeJPEG: jpeg.Decode,
		ContentTypePNG:  png.Decode,
	}

	imageEncoders = map[string]func(io.Writer, image.Image) error{
		ContentTypeJPEG: func(w io.Writer, i image.Image) error {
			return jpeg.Encode(w, i, &jpeg.Options{Quality: thumbnailJPEGQuality})
		},
		ContentTypePNG: png.Encode,
	}
)

// makeThumbnail scales the image so its longer side is at most maxEdge and
// re-encodes it in the same format. Smaller images keep their dimensions.
func makeThumbnail(data []byte, contentType string, maxEdge int) ([]byte, error) {
	decode, ok := imageDecoders[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errUnsupportedImage, contentType)
	}

	encode, ok := imageEncoders[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errUnsupportedImage, contentType)
	}

	original, err := decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	width, height := fitWithin(original.Bounds().Dx(), original.Bounds().Dy(), maxEdge)

	bitmap := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(
		bitmap,
		bitmap.Bounds(),
		original,
		original.Bounds(),
		draw.Over,
		nil,
	)

	var buf bytes.Buffer
	if err := encode(&buf, bitmap); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}

	return buf.Bytes(), nil
}

func fitWithin(width, height, maxEdge int) (int, int) {
	longest := max(width, height)
	if longest <= maxEdge || longest == 0 {
		return width, height
	}

	ratio := float64(maxEdge) / float64(longest)
	w := max(1, int(float64(width)*ratio+0.5))
	h := max(1, int(float64(height)*ratio+0.5))
	return w, h
}
