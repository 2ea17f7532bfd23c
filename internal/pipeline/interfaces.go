package pipeline

import (
	"context"
	"errors"
	"image"
)

var (
	ErrNothingSelected = errors.New("no images selected")
	ErrBatchRunning    = errors.New("a batch is already running")
)

// ImageLoader decodes source images from disk
type ImageLoader interface {
	Load(ctx context.Context, path string) (*ImageData, error)
}

// ImageSaver encodes processed images to disk
type ImageSaver interface {
	Save(img image.Image, path string) error
}

// ImageData represents a decoded source image
type ImageData struct {
	Image  image.Image
	Path   string
	Width  int
	Height int
	Format string
	Size   int64
}
