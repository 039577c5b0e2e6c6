package common

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DecodeImage decodes an encoded image (PNG, JPEG, GIF, BMP, TIFF or WebP) into tightly packed RGBA8 pixels.
// Images that are not already *image.RGBA are converted, so the returned Pixels always hold 4*Width*Height bytes.
//
// Parameters:
//   - r: the reader containing the encoded image
//
// Returns:
//   - TextureStagingData: the decoded pixels and dimensions
//   - error: error if the format is unknown or decoding fails
func DecodeImage(r io.Reader) (TextureStagingData, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return TextureStagingData{}, fmt.Errorf("failed to decode image: %w", err)
	}
	return ImageToStagingData(img), nil
}

// DecodeImageBytes decodes an in-memory encoded image. See DecodeImage.
//
// Parameters:
//   - data: the encoded image bytes
//
// Returns:
//   - TextureStagingData: the decoded pixels and dimensions
//   - error: error if decoding fails
func DecodeImageBytes(data []byte) (TextureStagingData, error) {
	return DecodeImage(bytes.NewReader(data))
}

// DecodeImageFile opens and decodes the image file at path. See DecodeImage.
//
// Parameters:
//   - path: the file path of the image
//
// Returns:
//   - TextureStagingData: the decoded pixels and dimensions
//   - error: error if the file cannot be opened or decoded
func DecodeImageFile(path string) (TextureStagingData, error) {
	file, err := os.Open(path)
	if err != nil {
		return TextureStagingData{}, fmt.Errorf("failed to open image file %s: %w", path, err)
	}
	defer file.Close()

	data, err := DecodeImage(file)
	if err != nil {
		return TextureStagingData{}, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

// ImageToStagingData converts any image.Image to RGBA8 staging data with a row stride of 4*width.
//
// Parameters:
//   - img: the source image
//
// Returns:
//   - TextureStagingData: the converted pixels and dimensions
func ImageToStagingData(img image.Image) TextureStagingData {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != 4*bounds.Dx() || bounds.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}
	return TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
	}
}
