package main

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrAssetUnavailable is returned when an image asset cannot be read or decoded.
var ErrAssetUnavailable = errors.New("image asset unavailable")

// ImageAsset is a decoded image normalised to PNG, ready to be placed on a
// surface. Name identifies the image inside one document.
type ImageAsset struct {
	Name   string
	PNG    []byte
	Width  int // Pixels
	Height int // Pixels
}

// Assets are the images drawn as page chrome. A nil field means the asset is
// missing and a placeholder is drawn instead.
type Assets struct {
	Logo      *ImageAsset
	Watermark *ImageAsset
}

// DecodeImageAsset decodes any registered image format (PNG, JPEG, GIF, BMP,
// TIFF, WebP) and re-encodes it as PNG.
func DecodeImageAsset(name string, r io.Reader) (*ImageAsset, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrAssetUnavailable, name, err)
	}

	// PNG input is re-encoded too: fpdf rejects interlaced PNGs.
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: encode %s (%s): %v", ErrAssetUnavailable, name, format, err)
	}

	b := img.Bounds()
	return &ImageAsset{
		Name:   name,
		PNG:    buf.Bytes(),
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}

// LoadImageAsset reads and decodes the image at path.
func LoadImageAsset(name, path string) (*ImageAsset, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: %s: no path configured", ErrAssetUnavailable, name)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrAssetUnavailable, name, err)
	}
	return DecodeImageAsset(name, bytes.NewReader(data))
}

// LoadAssets loads the configured chrome images. Failures are logged and the
// corresponding field is left nil so the report falls back to placeholders.
func LoadAssets(cfg AssetsConfig, logger *zap.Logger) Assets {
	var assets Assets
	var err error

	if cfg.Logo != "" {
		if assets.Logo, err = LoadImageAsset("logo", cfg.Logo); err != nil {
			logger.Warn("Logo unavailable, using placeholder", zap.String("path", cfg.Logo), zap.Error(err))
		}
	}
	if cfg.Watermark != "" {
		if assets.Watermark, err = LoadImageAsset("watermark", cfg.Watermark); err != nil {
			logger.Warn("Watermark unavailable, using placeholder", zap.String("path", cfg.Watermark), zap.Error(err))
		}
	}
	return assets
}
