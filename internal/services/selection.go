package services

import (
	"context"
	"errors"
	"image"
	"sync"

	"open-denoise/internal/logger"
	"open-denoise/internal/models"
	"open-denoise/internal/platform"
	"open-denoise/internal/thumbnail"

	"github.com/remeh/sizedwaitgroup"
)

// Row is one rendered entry of the selection list
type Row struct {
	Index     int
	Image     models.SelectableImage
	Thumbnail image.Image
	Err       error
}

// SelectionService owns the working set of images and keeps the list view
// informed through the change callback.
type SelectionService struct {
	set      *models.SelectionSet
	picker   platform.Picker
	logger   logger.Logger
	workers  int
	startDir func() string

	mu       sync.RWMutex
	onChange func()
}

func NewSelectionService(set *models.SelectionSet, picker platform.Picker, log logger.Logger, workers int) *SelectionService {
	if workers < 1 {
		workers = 1
	}
	return &SelectionService{
		set:      set,
		picker:   picker,
		logger:   log,
		workers:  workers,
		startDir: platform.PicturesDir,
	}
}

func (s *SelectionService) SetOnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

func (s *SelectionService) Set() *models.SelectionSet {
	return s.set
}

func (s *SelectionService) changed() {
	s.mu.RLock()
	fn := s.onChange
	s.mu.RUnlock()

	if fn != nil {
		fn()
	}
}

// AddFromDialog replaces the working set with the images picked in the
// native dialog. A cancelled or empty pick leaves the set untouched.
func (s *SelectionService) AddFromDialog(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	paths, err := s.picker.PickImages(s.startDir())
	if err != nil {
		if errors.Is(err, platform.ErrCancelled) {
			s.logger.Debug("SelectionService", "image dialog cancelled", nil)
			return false, nil
		}
		return false, err
	}

	filtered := make([]string, 0, len(paths))
	for _, path := range paths {
		if platform.HasImageExtension(path) {
			filtered = append(filtered, path)
		} else {
			s.logger.Debug("SelectionService", "dropping path outside dialog filter", map[string]interface{}{
				"path": path,
			})
		}
	}

	return s.replace(filtered, "dialog"), nil
}

// AddFromDrop replaces the working set with dropped paths. Drops are not
// filtered by extension; unreadable files surface as per-row errors.
func (s *SelectionService) AddFromDrop(paths []string) bool {
	return s.replace(paths, "drop")
}

func (s *SelectionService) replace(paths []string, source string) bool {
	if len(paths) == 0 {
		return false
	}

	s.set.Replace(paths)
	s.logger.Info("SelectionService", "selection replaced", map[string]interface{}{
		"source": source,
		"count":  len(paths),
	})
	s.changed()
	return true
}

func (s *SelectionService) Clear() {
	s.set.Clear()
	s.logger.Info("SelectionService", "selection cleared", nil)
	s.changed()
}

func (s *SelectionService) SetSelected(index int, selected bool) error {
	return s.set.SetSelected(index, selected)
}

// Render derives a thumbnail per entry. Load failures produce a placeholder
// and the error on that row; the pass always covers every entry unless ctx
// is cancelled.
func (s *SelectionService) Render(ctx context.Context) ([]Row, error) {
	entries := s.set.Entries()
	rows := make([]Row, len(entries))
	swg := sizedwaitgroup.New(s.workers)

	for i, entry := range entries {
		if err := swg.AddWithContext(ctx); err != nil {
			swg.Wait()
			return nil, err
		}

		go func(i int, entry models.SelectableImage) {
			defer swg.Done()

			thumb, err := thumbnail.Load(entry.Path())
			if err != nil {
				s.logger.Warning("SelectionService", "thumbnail unavailable", map[string]interface{}{
					"path":  entry.Path(),
					"error": err.Error(),
				})
			}
			rows[i] = Row{Index: i, Image: entry, Thumbnail: thumb, Err: err}
		}(i, entry)
	}

	swg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}
