package pipeline

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"open-denoise/internal/logger"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

type imageSaver struct {
	logger      logger.Logger
	jpegQuality int
}

func NewSaver(log logger.Logger, jpegQuality int) ImageSaver {
	return &imageSaver{logger: log, jpegQuality: jpegQuality}
}

// Save picks the encoder from the extension of path.
func (s *imageSaver) Save(img image.Image, path string) error {
	format := determineFormat(path)

	var err error
	switch format {
	case "webp":
		err = s.saveWebP(img, path)
	case "jpeg":
		err = imaging.Save(img, path, imaging.JPEGQuality(s.jpegQuality))
	case "png", "gif", "tiff", "bmp":
		err = imaging.Save(img, path)
	default:
		err = fmt.Errorf("unsupported output format for %s", path)
	}

	if err != nil {
		s.logger.Error("ImageSaver", err, map[string]interface{}{
			"path":   path,
			"format": format,
		})
		return err
	}

	s.logger.Debug("ImageSaver", "image saved", map[string]interface{}{
		"path":   path,
		"format": format,
	})
	return nil
}

func (s *imageSaver) saveWebP(img image.Image, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return webp.Encode(f, img, &webp.Options{Quality: float32(s.jpegQuality)})
}

// OutputPath builds <dir>/<name><suffix>.<ext> for source.
// format is "source", "png", "jpg" or "webp".
func OutputPath(dir, source, suffix, format string) string {
	base := filepath.Base(source)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)

	return filepath.Join(dir, name+suffix+outputExtension(ext, format))
}

func outputExtension(sourceExt, format string) string {
	switch format {
	case "png":
		return ".png"
	case "jpg", "jpeg":
		return ".jpg"
	case "webp":
		return ".webp"
	}

	switch determineFormat(sourceExt) {
	case "unknown":
		return ".png"
	default:
		return strings.ToLower(sourceExt)
	}
}
