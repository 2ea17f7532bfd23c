// Package thumbnail derives the fixed-size previews shown in the selection list.
package thumbnail

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// Size is the edge length of every thumbnail in pixels.
const Size = 50

var placeholderColor = color.NRGBA{R: 200, G: 200, B: 200, A: 255}

// CenterSquare returns the centred square of side min(w, h) inside bounds.
func CenterSquare(bounds image.Rectangle) image.Rectangle {
	w, h := bounds.Dx(), bounds.Dy()
	side := min(w, h)
	left := (w - side) / 2
	top := (h - side) / 2

	origin := bounds.Min.Add(image.Pt(left, top))
	return image.Rectangle{Min: origin, Max: origin.Add(image.Pt(side, side))}
}

// Derive crops img to its centred square and scales the crop to Size×Size.
// Scaling is nearest-neighbour with independent x/y factors.
func Derive(img image.Image) image.Image {
	if img == nil || img.Bounds().Empty() {
		return Placeholder()
	}

	cropped := imaging.Crop(img, CenterSquare(img.Bounds()))
	return imaging.Resize(cropped, Size, Size, imaging.NearestNeighbor)
}

// Placeholder is shown for entries whose image could not be read.
func Placeholder() image.Image {
	return imaging.New(Size, Size, placeholderColor)
}

// Load decodes the file at path, applies its EXIF orientation and derives
// the thumbnail. On failure the placeholder is returned together with the error.
func Load(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return Placeholder(), fmt.Errorf("failed to load thumbnail for %s: %w", path, err)
	}
	return Derive(img), nil
}
