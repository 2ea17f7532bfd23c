package app

import (
	"open-denoise/internal/config"
	"open-denoise/internal/denoise"
	"open-denoise/internal/gui"
	"open-denoise/internal/logger"
	"open-denoise/internal/models"
	"open-denoise/internal/pipeline"
	"open-denoise/internal/platform"
	"open-denoise/internal/services"
	"open-denoise/internal/shutdown"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

const (
	AppName    = "Open Denoise"
	AppID      = "io.github.sun_jiao.opendenoise"
	AppVersion = "0.1.0"
)

type Application struct {
	fyneApp    fyne.App
	window     fyne.Window
	guiManager *gui.Manager
	handlers   *Handlers
	lifecycle  *Lifecycle
	shutdown   *shutdown.Manager
	logger     logger.Logger
}

func NewApplication(settings *config.Config, log logger.Logger) (*Application, error) {
	app.SetMetadata(fyne.AppMetadata{
		ID:      AppID,
		Name:    AppName,
		Version: AppVersion,
	})
	fyneApp := app.NewWithID(AppID)

	window := fyneApp.NewWindow(gui.WindowTitle)
	window.CenterOnScreen()
	window.SetMaster()

	log.Info("Application", "starting application", map[string]interface{}{
		"version": AppVersion,
		"method":  settings.Processing.Method,
		"mode":    settings.Processing.Mode,
		"workers": settings.Processing.Workers,
	})

	guiManager := gui.NewManager(fyneApp, window, log)
	shutdownMgr := shutdown.NewManager(log)

	picker := platform.NewNativePicker(log)
	selection := services.NewSelectionService(models.NewSelectionSet(), picker, log, settings.UI.ThumbnailWorkers)
	output := services.NewOutputService(picker, log)
	loader := pipeline.NewLoader(log)
	processor := pipeline.NewProcessor(denoise.DefaultRegistry(), loader, log)
	processing := services.NewProcessingService(selection, output, processor, settings, log)

	handlers := NewHandlers(
		shutdownMgr.Context(),
		guiManager,
		selection,
		output,
		processing,
		loader,
		platform.SystemOpener{},
		platform.DesktopNotifier{},
		settings,
		log,
	)

	application := &Application{
		fyneApp:    fyneApp,
		window:     window,
		guiManager: guiManager,
		handlers:   handlers,
		lifecycle:  NewLifecycle(handlers, guiManager, log),
		shutdown:   shutdownMgr,
		logger:     log,
	}

	application.setupHandlers()
	guiManager.InitMode(processing.Mode())

	log.Info("Application", "initialization complete", nil)
	return application, nil
}

func (a *Application) setupHandlers() {
	h := a.handlers

	a.guiManager.SetSelectImagesHandler(h.HandleSelectImages)
	a.guiManager.SetClearImagesHandler(h.HandleClearImages)
	a.guiManager.SetToggleHandler(h.HandleToggle)
	a.guiManager.SetPreviewHandler(h.HandlePreview)
	a.guiManager.SetDropHandler(h.HandleDrop)
	a.guiManager.SetOutputDirectoryHandler(h.HandleSelectOutputDirectory)
	a.guiManager.SetExportHandler(h.HandleExportChanged)
	a.guiManager.SetModeHandler(h.HandleModeChanged)
	a.guiManager.SetProcessHandler(h.HandleProcess)
	a.guiManager.SetCancelHandler(h.HandleCancel)
	a.guiManager.SetOpenFolderHandler(h.HandleOpenFolder)
	a.guiManager.SetURLOpener(h.HandleOpenURL)
	a.guiManager.SetMainMenu(a.quit)

	a.shutdown.Register("lifecycle", a.lifecycle)
}

// quit runs the shutdown sequence and stops the event loop.
func (a *Application) quit() {
	a.shutdown.Shutdown()
	a.fyneApp.Quit()
}

// Run blocks until the main window closes or a termination signal arrives.
func (a *Application) Run() error {
	a.window.SetCloseIntercept(func() {
		a.logger.Info("Application", "shutdown requested", nil)
		a.shutdown.Shutdown()
		a.window.Close()
	})

	a.shutdown.Listen(func() {
		fyne.Do(a.fyneApp.Quit)
	})

	a.guiManager.Show()
	a.logger.Info("Application", "GUI displayed", nil)

	a.fyneApp.Run()

	a.shutdown.Shutdown()
	return nil
}
