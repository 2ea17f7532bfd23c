package app

import (
	"sync"

	"open-denoise/internal/gui"
	"open-denoise/internal/logger"
)

// Lifecycle stops the application's parts in reverse dependency order
type Lifecycle struct {
	handlers   *Handlers
	guiManager *gui.Manager
	logger     logger.Logger

	once sync.Once
}

func NewLifecycle(handlers *Handlers, gm *gui.Manager, log logger.Logger) *Lifecycle {
	return &Lifecycle{
		handlers:   handlers,
		guiManager: gm,
		logger:     log,
	}
}

func (l *Lifecycle) Shutdown() {
	l.once.Do(func() {
		l.logger.Info("Lifecycle", "shutdown sequence initiated", nil)

		if l.handlers != nil {
			l.handlers.Shutdown()
			l.logger.Debug("Lifecycle", "handlers stopped", nil)
		}

		if l.guiManager != nil {
			l.guiManager.Shutdown()
			l.logger.Debug("Lifecycle", "GUI manager shutdown completed", nil)
		}

		l.logger.Info("Lifecycle", "shutdown sequence completed", nil)
	})
}
