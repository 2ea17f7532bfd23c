package gui

import (
	"image"
	"sync"

	"open-denoise/internal/logger"
	"open-denoise/internal/models"
	"open-denoise/internal/pipeline"
	"open-denoise/internal/services"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
)

// Manager owns the main window and funnels every widget update through
// the UI thread.
type Manager struct {
	app    fyne.App
	window fyne.Window
	view   *View
	logger logger.Logger

	mu         sync.Mutex
	isShutdown bool

	openURL     func(string)
	dropHandler func([]string)
}

func NewManager(app fyne.App, window fyne.Window, log logger.Logger) *Manager {
	manager := &Manager{
		app:    app,
		window: window,
		view:   NewView(window),
		logger: log,
	}

	window.SetOnDropped(manager.onDropped)

	log.Info("GUIManager", "initialized", map[string]interface{}{
		"width":  WindowWidth,
		"height": WindowHeight,
	})
	return manager
}

func (m *Manager) View() *View {
	return m.view
}

func (m *Manager) Show() {
	m.window.SetTitle(WindowTitle)
	m.view.Show()
}

func (m *Manager) SetSelectImagesHandler(handler func()) {
	m.view.list.SetSelectHandler(handler)
}

func (m *Manager) SetClearImagesHandler(handler func()) {
	m.view.list.SetClearHandler(handler)
}

func (m *Manager) SetToggleHandler(handler func(int, bool)) {
	m.view.list.SetToggleHandler(handler)
}

func (m *Manager) SetPreviewHandler(handler func(int)) {
	m.view.list.SetPreviewHandler(handler)
}

func (m *Manager) SetOutputDirectoryHandler(handler func()) {
	m.view.operations.SetOutputHandler(handler)
}

func (m *Manager) SetExportHandler(handler func(models.CheckState)) {
	m.view.operations.SetExportHandler(handler)
}

func (m *Manager) SetModeHandler(handler func(models.ExecutionMode)) {
	m.view.operations.SetModeHandler(handler)
}

func (m *Manager) SetProcessHandler(handler func()) {
	m.view.operations.SetProcessHandler(handler)
}

func (m *Manager) SetCancelHandler(handler func()) {
	m.view.operations.SetCancelHandler(handler)
}

func (m *Manager) SetOpenFolderHandler(handler func()) {
	m.view.operations.SetOpenFolderHandler(handler)
}

// SetDropHandler receives the local paths of files dropped on the window.
func (m *Manager) SetDropHandler(handler func([]string)) {
	m.dropHandler = handler
}

// SetURLOpener routes hyperlinks and link menu entries.
func (m *Manager) SetURLOpener(open func(string)) {
	m.openURL = open
}

func (m *Manager) SetMainMenu(exit func()) {
	m.window.SetMainMenu(buildMainMenu(MenuActions{
		Exit:         exit,
		Preferences:  m.ShowNotImplemented,
		OpenReleases: func() { m.open(ReleasesURL) },
		OpenSource:   func() { m.open(SourceURL) },
		ShowAbout:    m.ShowAbout,
	}))
}

func (m *Manager) open(rawURL string) {
	if m.openURL != nil {
		m.openURL(rawURL)
	}
}

func (m *Manager) onDropped(_ fyne.Position, uris []fyne.URI) {
	paths := make([]string, 0, len(uris))
	for _, uri := range uris {
		if uri.Scheme() != "file" {
			m.logger.Debug("GUIManager", "ignoring non-local drop", map[string]interface{}{
				"uri": uri.String(),
			})
			continue
		}
		paths = append(paths, uri.Path())
	}

	m.logger.Debug("GUIManager", "files dropped", map[string]interface{}{
		"count": len(paths),
	})

	if m.dropHandler != nil && len(paths) > 0 {
		m.dropHandler(paths)
	}
}

func (m *Manager) ShowNotImplemented() {
	showInfoWindow(m.app, "Not Implemented!", notImplementedContent(m.open))
}

func (m *Manager) ShowAbout() {
	showInfoWindow(m.app, "About the app", aboutContent(m.open))
}

func (m *Manager) SetRows(rows []services.Row) {
	fyne.Do(func() {
		m.view.list.SetRows(rows)
	})
}

func (m *Manager) SetSelectionStats(stats models.SelectionStats) {
	fyne.Do(func() {
		m.view.status.SetSelectionStats(stats)
	})
}

func (m *Manager) SetPreview(img image.Image, name string, size int64) {
	fyne.Do(func() {
		m.view.preview.SetImage(img, name, size)
	})
}

func (m *Manager) ClearPreview() {
	fyne.Do(func() {
		m.view.preview.Clear()
	})
}

func (m *Manager) SetOutputDirectory(dir string) {
	fyne.Do(func() {
		m.view.operations.SetOutputDirectory(dir)
	})
}

// InitMode selects the radio option before the window is shown.
func (m *Manager) InitMode(mode models.ExecutionMode) {
	m.view.operations.SetMode(mode)
}

func (m *Manager) SetProcessing(active bool) {
	fyne.Do(func() {
		m.view.operations.SetProcessing(active)
	})
}

func (m *Manager) ShowOpenFolder(show bool) {
	fyne.Do(func() {
		m.view.operations.ShowOpenFolder(show)
	})
}

func (m *Manager) UpdateStatus(status string) {
	fyne.Do(func() {
		m.view.status.SetStatus(status)
		m.logger.Debug("GUIManager", "status updated", map[string]interface{}{
			"status": status,
		})
	})
}

func (m *Manager) UpdateProgress(progress pipeline.Progress) {
	fyne.Do(func() {
		m.view.status.SetProgress(progress)
	})
}

func (m *Manager) ShowReport(report models.BatchReport) {
	fyne.Do(func() {
		m.view.status.SetReport(report)
	})
}

func (m *Manager) ShowError(title string, err error) {
	m.logger.Error("GUIManager", err, map[string]interface{}{
		"title": title,
	})

	fyne.Do(func() {
		dialog.ShowError(err, m.window)
	})
}

func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.isShutdown {
		return
	}

	m.isShutdown = true
	m.logger.Info("GUIManager", "shutdown initiated", nil)
}
