package inputs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"log"
	"os"

	"github.com/h2non/filetype"
	"github.com/richinsley/golens/lens"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// DefaultBrushPath is the brush mask used when none is configured.
const DefaultBrushPath = "textures/soft_brush.png"

// ErrUnsupportedFormat is returned for data that is not a decodable image.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Fetcher returns the raw bytes of an image source.
type Fetcher interface {
	Fetch(ctx context.Context, src string) ([]byte, error)
}

// Decode sniffs the format from the leading bytes and decodes the image.
// png, jpeg, gif, webp, bmp and tiff are supported.
func Decode(data []byte) (image.Image, error) {
	kind, err := filetype.Match(data)
	if err != nil {
		return nil, fmt.Errorf("failed to detect image type: %w", err)
	}
	r := bytes.NewReader(data)
	var img image.Image
	switch kind.Extension {
	case "png":
		img, err = png.Decode(r)
	case "jpg":
		img, err = jpeg.Decode(r)
	case "gif":
		img, err = gif.Decode(r)
	case "webp":
		img, err = webp.Decode(r)
	case "bmp":
		img, err = bmp.Decode(r)
	case "tif":
		img, err = tiff.Decode(r)
	default:
		if kind == filetype.Unknown {
			return nil, ErrUnsupportedFormat
		}
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, kind.MIME.Value)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s image: %w", kind.Extension, err)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("decoded %s image is empty", kind.Extension)
	}
	return img, nil
}

// NewLoader returns a lens loader for the image and brush sources. An empty
// brush source uses DefaultBrushPath when it exists and a synthesized soft
// brush otherwise.
func NewLoader(f Fetcher, imageSrc, brushSrc string) lens.Loader {
	return func(ctx context.Context) (*lens.Textures, error) {
		img, err := fetchImage(ctx, f, imageSrc)
		if err != nil {
			return nil, fmt.Errorf("image: %w", err)
		}

		if brushSrc == "" {
			if _, err := os.Stat(DefaultBrushPath); err == nil {
				brushSrc = DefaultBrushPath
			}
		}
		var brush image.Image
		if brushSrc == "" {
			log.Printf("No brush texture at %s, using a generated soft brush", DefaultBrushPath)
			brush = DefaultBrush(DefaultBrushSize)
		} else {
			brush, err = fetchImage(ctx, f, brushSrc)
			if err != nil {
				return nil, fmt.Errorf("brush: %w", err)
			}
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return &lens.Textures{Source: imageSrc, Image: img, Brush: brush}, nil
	}
}

func fetchImage(ctx context.Context, f Fetcher, src string) (image.Image, error) {
	data, err := f.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src, err)
	}
	return img, nil
}
