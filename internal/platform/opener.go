package platform

import (
	"fmt"

	"github.com/pkg/browser"
	"github.com/skratchdot/open-golang/open"
)

// Opener hands URLs and folders to the platform's default handlers.
type Opener interface {
	OpenURL(rawURL string) error
	RevealDirectory(dir string) error
}

type SystemOpener struct{}

func (SystemOpener) OpenURL(rawURL string) error {
	if err := browser.OpenURL(rawURL); err != nil {
		return fmt.Errorf("failed to open %s: %w", rawURL, err)
	}
	return nil
}

func (SystemOpener) RevealDirectory(dir string) error {
	if err := open.Run(dir); err != nil {
		return fmt.Errorf("failed to open directory %s: %w", dir, err)
	}
	return nil
}
