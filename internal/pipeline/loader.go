package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"open-denoise/internal/logger"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

type imageLoader struct {
	logger logger.Logger
}

func NewLoader(log logger.Logger) ImageLoader {
	return &imageLoader{logger: log}
}

func (l *imageLoader) Load(ctx context.Context, path string) (*ImageData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat image: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	imageData := &ImageData{
		Image:  img,
		Path:   path,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Format: determineFormat(path),
		Size:   info.Size(),
	}

	l.logger.Debug("ImageLoader", "image loaded", map[string]interface{}{
		"path":   path,
		"width":  imageData.Width,
		"height": imageData.Height,
		"format": imageData.Format,
	})

	return imageData, nil
}

func determineFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tiff", ".tif":
		return "tiff"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".png":
		return "png"
	case ".bmp":
		return "bmp"
	case ".gif":
		return "gif"
	case ".webp":
		return "webp"
	default:
		return "unknown"
	}
}
