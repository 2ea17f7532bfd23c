package platform

import (
	"errors"
	"path/filepath"
	"strings"

	"open-denoise/internal/logger"

	"github.com/ncruces/zenity"
	"github.com/sqweek/dialog"
)

// ErrCancelled is returned when the user closes a dialog without choosing.
var ErrCancelled = errors.New("dialog cancelled")

// ImageExtensions is the extension filter of the image picker.
var ImageExtensions = []string{"png", "jpg", "bmp", "gif", "tif"}

// Picker opens the native file and directory choosers.
type Picker interface {
	PickImages(startDir string) ([]string, error)
	PickDirectory(startDir string) (string, error)
}

// HasImageExtension reports whether path matches the picker filter.
func HasImageExtension(path string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	for _, allowed := range ImageExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

type NativePicker struct {
	logger logger.Logger

	portal      func(title, startDir string) ([]string, bool, error)
	selectFiles func(title, startDir string) ([]string, error)
}

func NewNativePicker(log logger.Logger) *NativePicker {
	return &NativePicker{
		logger:      log,
		portal:      portalPickImages,
		selectFiles: zenityPickImages,
	}
}

// PickImages prefers the desktop portal and falls back to the native
// multi-select dialog. Both allow choosing several files.
func (p *NativePicker) PickImages(startDir string) ([]string, error) {
	const title = "Select Images"

	paths, handled, err := p.portal(title, startDir)
	if !handled {
		if err != nil {
			p.logger.Debug("Picker", "portal unavailable, using native dialog", map[string]interface{}{
				"error": err.Error(),
			})
		}
		paths, err = p.selectFiles(title, startDir)
	}
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, ErrCancelled
	}
	return paths, nil
}

func zenityPickImages(title, startDir string) ([]string, error) {
	patterns := make([]string, 0, len(ImageExtensions))
	for _, ext := range ImageExtensions {
		patterns = append(patterns, "*."+ext)
	}

	options := []zenity.Option{
		zenity.Title(title),
		zenity.FileFilter{Name: "Images", Patterns: patterns, CaseFold: true},
	}
	if startDir != "" {
		// A trailing separator makes zenity treat the name as the start folder.
		options = append(options, zenity.Filename(startDir+string(filepath.Separator)))
	}

	paths, err := zenity.SelectFileMultiple(options...)
	if errors.Is(err, zenity.ErrCanceled) {
		return nil, ErrCancelled
	}
	return paths, err
}

func (p *NativePicker) PickDirectory(startDir string) (string, error) {
	builder := dialog.Directory().Title("Select Output Directory")
	if startDir != "" {
		builder = builder.SetStartDir(startDir)
	}

	dir, err := builder.Browse()
	if err != nil {
		if errors.Is(err, dialog.ErrCancelled) {
			return "", ErrCancelled
		}
		return "", err
	}
	return dir, nil
}
