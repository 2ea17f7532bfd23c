//go:build linux

package platform

import (
	"fmt"
	"net/url"

	"github.com/rymdport/portal/filechooser"
)

// portalPickImages asks xdg-desktop-portal for a multi-file selection.
// handled is false when the portal could not be reached.
func portalPickImages(title, startDir string) (paths []string, handled bool, err error) {
	rules := make([]filechooser.Rule, 0, len(ImageExtensions))
	for _, ext := range ImageExtensions {
		rules = append(rules, filechooser.Rule{Type: filechooser.GlobPattern, Pattern: "*." + ext})
	}
	filter := &filechooser.Filter{Name: "Images", Rules: rules}

	uris, err := filechooser.OpenFile("", title, &filechooser.OpenFileOptions{
		AcceptLabel:   "Select",
		Multiple:      true,
		Filters:       []*filechooser.Filter{filter},
		CurrentFilter: filter,
		CurrentFolder: startDir,
	})
	if err != nil {
		return nil, false, err
	}

	paths = make([]string, 0, len(uris))
	for _, raw := range uris {
		uri, err := url.Parse(raw)
		if err != nil {
			return nil, true, fmt.Errorf("portal returned invalid uri %q: %w", raw, err)
		}
		if uri.Scheme != "file" {
			continue
		}
		paths = append(paths, uri.Path)
	}
	return paths, true, nil
}
