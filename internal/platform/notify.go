package platform

import (
	"os"
	"runtime"

	"github.com/gen2brain/beeep"
)

// Notifier shows desktop notifications.
type Notifier interface {
	Notify(title, body string) error
}

type DesktopNotifier struct{}

// Notify is best-effort; headless Linux sessions are skipped.
func (DesktopNotifier) Notify(title, body string) error {
	if body == "" {
		return nil
	}
	if runtime.GOOS == "linux" && os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
		return nil
	}
	return beeep.Notify(title, body, "")
}
