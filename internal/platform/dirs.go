package platform

import (
	"os"

	"github.com/adrg/xdg"
)

// PicturesDir returns the user's pictures folder, or "" when it does not exist.
// The location comes from XDG_PICTURES_DIR, user-dirs.dirs, the macOS home
// folder or the Windows known folder, depending on the platform.
func PicturesDir() string {
	dir := xdg.UserDirs.Pictures
	if dir == "" {
		return ""
	}
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return dir
	}
	return ""
}
