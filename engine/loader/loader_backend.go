package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-sprite/common"
)

// loaderBackend defines the format-facing half of a Loader. It turns encoded images into RGBA8 staging data.
type loaderBackend interface {
	// Decode reads and decodes the image file at path.
	//
	// Parameters:
	//   - path: the file path to decode
	//
	// Returns:
	//   - common.TextureStagingData: tightly packed RGBA8 pixels and dimensions
	//   - error: error if the file cannot be read or decoded
	Decode(path string) (common.TextureStagingData, error)

	// DecodeReader decodes an image from a reader stream.
	//
	// Parameters:
	//   - r: the reader providing the encoded image
	//
	// Returns:
	//   - common.TextureStagingData: tightly packed RGBA8 pixels and dimensions
	//   - error: error if decoding fails
	DecodeReader(r io.Reader) (common.TextureStagingData, error)
}

// imageLoaderBackend decodes every format registered with the image package (PNG, JPEG, GIF, BMP, TIFF, WebP).
type imageLoaderBackend struct{}

var _ loaderBackend = imageLoaderBackend{}

func newImageLoaderBackend() loaderBackend {
	return imageLoaderBackend{}
}

func (imageLoaderBackend) Decode(path string) (common.TextureStagingData, error) {
	return common.DecodeImageFile(path)
}

func (imageLoaderBackend) DecodeReader(r io.Reader) (common.TextureStagingData, error) {
	return common.DecodeImage(r)
}
