package acquire

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"

	// Decoders for the formats users commonly pick
	_ "image/gif"
	_ "image/jpeg"

	_ "github.com/gen2brain/avif"
	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"saucenao/models"
)

// EncodePNG loads the image behind in and re-encodes it as PNG, which is
// what the service receives as the "file" part. Images wider or taller than
// maxDimension are scaled down first; 0 disables scaling.
func EncodePNG(in models.SearchInput, maxDimension int) ([]byte, error) {
	var data []byte
	switch in.Kind {
	case models.InputImageBytes:
		data = in.Bytes
	case models.InputImageHandle:
		var err error
		data, err = os.ReadFile(in.Path)
		if err != nil {
			return nil, fmt.Errorf("unable to read image: %w", err)
		}
	default:
		return nil, fmt.Errorf("input %s is not an image", in.Kind)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unable to decode image: %w", err)
	}

	img = Downscale(img, maxDimension)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode %s image as PNG: %w", format, err)
	}
	return buf.Bytes(), nil
}

// Downscale shrinks img so that neither side exceeds maxDimension, keeping
// the aspect ratio. img is returned unchanged when it already fits.
func Downscale(img image.Image, maxDimension int) image.Image {
	if maxDimension <= 0 {
		return img
	}
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= maxDimension && height <= maxDimension {
		return img
	}

	// the zero side is derived from the aspect ratio
	var newWidth, newHeight uint
	if width >= height {
		newWidth = uint(maxDimension)
	} else {
		newHeight = uint(maxDimension)
	}
	return resize.Resize(newWidth, newHeight, img, resize.Lanczos3)
}
