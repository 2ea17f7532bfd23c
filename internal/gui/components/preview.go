package components

import (
	"fmt"
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/dustin/go-humanize"
)

const (
	PreviewMinWidth  = 400
	PreviewMinHeight = 400
)

// PreviewPanel shows the image picked from the selection list
type PreviewPanel struct {
	container *fyne.Container
	image     *canvas.Image
	caption   *widget.Label
	hint      *widget.Label
}

func NewPreviewPanel() *PreviewPanel {
	img := canvas.NewImageFromImage(nil)
	img.FillMode = canvas.ImageFillContain
	img.ScaleMode = canvas.ImageScaleSmooth
	img.SetMinSize(fyne.NewSize(PreviewMinWidth, PreviewMinHeight))

	hint := widget.NewLabel("Select an image name to preview it here")
	hint.Alignment = fyne.TextAlignCenter

	caption := widget.NewLabel("")
	caption.Alignment = fyne.TextAlignCenter
	caption.Truncation = fyne.TextTruncateEllipsis

	return &PreviewPanel{
		container: container.NewBorder(nil, caption, nil, nil, container.NewStack(container.NewCenter(hint), img)),
		image:     img,
		caption:   caption,
		hint:      hint,
	}
}

func (p *PreviewPanel) GetContainer() *fyne.Container {
	return p.container
}

// SetImage shows img with a caption built from name and the file size.
func (p *PreviewPanel) SetImage(img image.Image, name string, size int64) {
	if img == nil {
		p.Clear()
		return
	}

	bounds := img.Bounds()
	p.image.Image = img
	p.image.Refresh()
	p.hint.Hide()
	p.caption.SetText(fmt.Sprintf("%s (%d x %d, %s)", name, bounds.Dx(), bounds.Dy(), humanize.Bytes(uint64(size))))
}

func (p *PreviewPanel) Clear() {
	p.image.Image = nil
	p.image.Refresh()
	p.caption.SetText("")
	p.hint.Show()
}

func (p *PreviewPanel) Caption() string {
	return p.caption.Text
}
