package app

import (
	"context"
	"errors"
	"image"
	"sync"

	"open-denoise/internal/config"
	"open-denoise/internal/gui/components"
	"open-denoise/internal/logger"
	"open-denoise/internal/models"
	"open-denoise/internal/pipeline"
	"open-denoise/internal/platform"
	"open-denoise/internal/services"
)

// Display is the part of gui.Manager the handlers drive. Every method is
// safe to call from any goroutine.
type Display interface {
	SetRows(rows []services.Row)
	SetSelectionStats(stats models.SelectionStats)
	SetPreview(img image.Image, name string, size int64)
	ClearPreview()
	SetOutputDirectory(dir string)
	SetProcessing(active bool)
	ShowOpenFolder(show bool)
	UpdateStatus(status string)
	UpdateProgress(progress pipeline.Progress)
	ShowReport(report models.BatchReport)
	ShowError(title string, err error)
}

type Handlers struct {
	ctx        context.Context
	display    Display
	selection  *services.SelectionService
	output     *services.OutputService
	processing *services.ProcessingService
	loader     pipeline.ImageLoader
	opener     platform.Opener
	notifier   platform.Notifier
	settings   *config.Config
	logger     logger.Logger

	mu           sync.Mutex
	renderCancel context.CancelFunc
	batchCancel  context.CancelFunc
	lastDirs     []string
	wg           sync.WaitGroup
}

func NewHandlers(
	ctx context.Context,
	display Display,
	selection *services.SelectionService,
	output *services.OutputService,
	processing *services.ProcessingService,
	loader pipeline.ImageLoader,
	opener platform.Opener,
	notifier platform.Notifier,
	settings *config.Config,
	log logger.Logger,
) *Handlers {
	h := &Handlers{
		ctx:        ctx,
		display:    display,
		selection:  selection,
		output:     output,
		processing: processing,
		loader:     loader,
		opener:     opener,
		notifier:   notifier,
		settings:   settings,
		logger:     log,
	}

	selection.SetOnChange(h.refreshList)
	return h
}

func (h *Handlers) async(fn func()) {
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		fn()
	}()
}

// refreshList re-renders the selection list, abandoning any render still
// in flight.
func (h *Handlers) refreshList() {
	h.mu.Lock()
	if h.renderCancel != nil {
		h.renderCancel()
	}
	ctx, cancel := context.WithCancel(h.ctx)
	h.renderCancel = cancel
	h.mu.Unlock()

	h.display.SetSelectionStats(h.selection.Set().GetStats())

	h.async(func() {
		rows, err := h.selection.Render(ctx)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				h.display.ShowError("Thumbnail Error", err)
			}
			return
		}

		failed := 0
		for _, row := range rows {
			if row.Err != nil {
				failed++
			}
		}
		if failed > 0 {
			h.logger.Warning("Handlers", "some thumbnails could not be loaded", map[string]interface{}{
				"failed": failed,
				"total":  len(rows),
			})
		}

		h.display.SetRows(rows)
	})
}

func (h *Handlers) HandleSelectImages() {
	h.async(func() {
		added, err := h.selection.AddFromDialog(h.ctx)
		if err != nil {
			h.display.ShowError("Image Selection Error", err)
			return
		}
		if added {
			h.display.ClearPreview()
			h.display.UpdateStatus("Ready")
		}
	})
}

// HandleDrop replaces the selection with dropped files.
func (h *Handlers) HandleDrop(paths []string) {
	if h.selection.AddFromDrop(paths) {
		h.display.ClearPreview()
		h.display.UpdateStatus("Ready")
	}
}

func (h *Handlers) HandleClearImages() {
	h.selection.Clear()
	h.display.ClearPreview()
	h.display.ShowOpenFolder(false)
	h.display.UpdateStatus("Ready")
}

func (h *Handlers) HandleToggle(index int, selected bool) {
	if err := h.selection.SetSelected(index, selected); err != nil {
		h.logger.Warning("Handlers", "selection toggle ignored", map[string]interface{}{
			"index": index,
			"error": err.Error(),
		})
		return
	}
	h.display.SetSelectionStats(h.selection.Set().GetStats())
}

func (h *Handlers) HandlePreview(index int) {
	entry, err := h.selection.Set().At(index)
	if err != nil {
		h.logger.Warning("Handlers", "preview of missing entry", map[string]interface{}{
			"index": index,
		})
		return
	}

	h.display.UpdateStatus("Loading " + entry.DisplayName() + "...")

	h.async(func() {
		data, err := h.loader.Load(h.ctx, entry.Path())
		if err != nil {
			h.display.ShowError("Preview Error", err)
			h.display.UpdateStatus("Ready")
			return
		}

		h.display.SetPreview(data.Image, entry.DisplayName(), data.Size)
		h.display.UpdateStatus("Ready")
	})
}

func (h *Handlers) HandleSelectOutputDirectory() {
	h.async(func() {
		picked, err := h.output.PickDirectory()
		if err != nil {
			h.display.ShowError("Output Directory Error", err)
			return
		}
		if picked {
			h.display.SetOutputDirectory(h.output.Directory())
		}
	})
}

func (h *Handlers) HandleExportChanged(state models.CheckState) {
	h.output.SetExportState(state)
}

func (h *Handlers) HandleModeChanged(mode models.ExecutionMode) {
	h.processing.SetMode(mode)
}

// HandleProcess starts a batch unless one is already running. batchCancel
// is set for exactly as long as a batch started here is in flight.
func (h *Handlers) HandleProcess() {
	h.mu.Lock()
	if h.batchCancel != nil || h.processing.IsProcessing() {
		h.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(h.ctx)
	h.batchCancel = cancel
	h.mu.Unlock()

	h.display.SetProcessing(true)
	h.display.UpdateStatus("Processing...")

	h.async(func() {
		defer func() {
			h.mu.Lock()
			h.batchCancel = nil
			h.mu.Unlock()
			cancel()
		}()

		report, err := h.processing.ProcessAndSave(ctx, h.display.UpdateProgress)
		h.display.SetProcessing(false)

		if err != nil {
			h.display.UpdateStatus("Ready")
			h.display.ShowError("Processing Error", err)
			return
		}

		dirs := report.OutputDirectories()
		h.mu.Lock()
		h.lastDirs = dirs
		h.mu.Unlock()

		h.display.ShowReport(report)
		h.display.ShowOpenFolder(len(dirs) == 1)
		h.display.SetSelectionStats(h.selection.Set().GetStats())

		if h.settings.UI.Notify && !report.Cancelled {
			if err := h.notifier.Notify("Open Denoise", components.FormatReport(report)); err != nil {
				h.logger.Debug("Handlers", "notification failed", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	})
}

func (h *Handlers) HandleCancel() {
	h.mu.Lock()
	cancel := h.batchCancel
	h.mu.Unlock()

	if cancel != nil {
		h.logger.Info("Handlers", "batch cancellation requested", nil)
		cancel()
	}
}

func (h *Handlers) HandleOpenFolder() {
	h.mu.Lock()
	dirs := h.lastDirs
	h.mu.Unlock()

	if len(dirs) == 0 {
		return
	}
	if err := h.opener.RevealDirectory(dirs[0]); err != nil {
		h.display.ShowError("Open Folder Error", err)
	}
}

func (h *Handlers) HandleOpenURL(rawURL string) {
	if err := h.opener.OpenURL(rawURL); err != nil {
		h.display.ShowError("Open Link Error", err)
	}
}

// Shutdown cancels outstanding work and waits for it to return.
func (h *Handlers) Shutdown() {
	h.mu.Lock()
	if h.renderCancel != nil {
		h.renderCancel()
	}
	if h.batchCancel != nil {
		h.batchCancel()
	}
	h.mu.Unlock()

	h.wg.Wait()
	h.logger.Debug("Handlers", "background work stopped", nil)
}
