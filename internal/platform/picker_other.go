//go:build !linux

package platform

func portalPickImages(title, startDir string) ([]string, bool, error) {
	return nil, false, nil
}
