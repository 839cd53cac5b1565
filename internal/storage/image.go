package storage

import (
	"errors"
	"fmt"

	"github.com/gabriel-vasile/mimetype"
)

// MaxImageSize is the largest accepted cover upload.
const MaxImageSize = 5 << 20

var (
	// ErrImageTooLarge is returned for uploads over MaxImageSize.
	ErrImageTooLarge = errors.New("image exceeds 5 MB")
	// ErrUnsupportedImage is returned when the content is not an accepted image.
	ErrUnsupportedImage = errors.New("unsupported image type")
)

// allowedImages maps accepted MIME types to the extension used in keys.
var allowedImages = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Image is an upload whose type was detected from its content.
type Image struct {
	Data        []byte
	ContentType string
	Ext         string
}

// DetectImage sniffs the content of an upload. The client-supplied
// content type is never trusted.
func DetectImage(data []byte) (Image, error) {
	if len(data) == 0 {
		return Image{}, ErrUnsupportedImage
	}
	if len(data) > MaxImageSize {
		return Image{}, ErrImageTooLarge
	}
	mt := mimetype.Detect(data)
	for m := mt; m != nil; m = m.Parent() {
		if ext, ok := allowedImages[m.String()]; ok {
			return Image{Data: data, ContentType: m.String(), Ext: ext}, nil
		}
	}
	return Image{}, fmt.Errorf("%w: %s", ErrUnsupportedImage, mt.String())
}
