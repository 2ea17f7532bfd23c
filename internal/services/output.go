package services

import (
	"errors"
	"sync"

	"open-denoise/internal/logger"
	"open-denoise/internal/models"
	"open-denoise/internal/platform"
)

// OutputService tracks the output directory and the export-to-original toggle
type OutputService struct {
	mu       sync.RWMutex
	target   models.OutputTarget
	picker   platform.Picker
	logger   logger.Logger
	startDir func() string
}

func NewOutputService(picker platform.Picker, log logger.Logger) *OutputService {
	return &OutputService{
		picker:   picker,
		logger:   log,
		startDir: platform.PicturesDir,
	}
}

func (o *OutputService) Target() models.OutputTarget {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.target
}

func (o *OutputService) Directory() string {
	return o.Target().Directory
}

func (o *OutputService) SetDirectory(dir string) {
	o.mu.Lock()
	o.target.Directory = dir
	o.mu.Unlock()

	o.logger.Info("OutputService", "output directory selected", map[string]interface{}{
		"directory": dir,
	})
}

// PickDirectory asks the user for a directory. Cancelling keeps the
// previous choice and returns false.
func (o *OutputService) PickDirectory() (bool, error) {
	dir, err := o.picker.PickDirectory(o.startDir())
	if err != nil {
		if errors.Is(err, platform.ErrCancelled) {
			return false, nil
		}
		return false, err
	}
	if dir == "" {
		return false, nil
	}

	o.SetDirectory(dir)
	return true, nil
}

// SetExportState applies the checkbox state and reports whether the
// directory picker should be enabled afterwards.
func (o *OutputService) SetExportState(state models.CheckState) bool {
	o.mu.Lock()
	o.target.ExportToOriginal = models.ExportEnabled(state)
	enabled := o.target.PickerEnabled()
	o.mu.Unlock()

	o.logger.Debug("OutputService", "export to original changed", map[string]interface{}{
		"enabled": !enabled,
	})
	return enabled
}
