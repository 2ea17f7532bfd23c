package gui

import (
	"open-denoise/internal/gui/components"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
)

const (
	WindowTitle  = "Open Denoise (powered by SCUNet)"
	WindowWidth  = 800
	WindowHeight = 500
	PreviewShare = 2.0 / 3.0
)

// View lays out the preview on the left and the controls on the right
type View struct {
	window fyne.Window

	preview    *components.PreviewPanel
	list       *components.SelectionList
	operations *components.OperationsPanel
	status     *components.StatusBar
	content    fyne.CanvasObject
}

func NewView(window fyne.Window) *View {
	view := &View{
		window:     window,
		preview:    components.NewPreviewPanel(),
		list:       components.NewSelectionList(),
		operations: components.NewOperationsPanel(),
		status:     components.NewStatusBar(),
	}

	view.setupLayout()
	return view
}

func (v *View) setupLayout() {
	controls := container.NewBorder(
		nil,
		v.operations.GetContainer(),
		nil, nil,
		v.list.GetContainer(),
	)

	split := container.NewHSplit(v.preview.GetContainer(), controls)
	split.Offset = PreviewShare

	v.content = container.NewBorder(nil, v.status.GetContainer(), nil, nil, split)
}

func (v *View) Show() {
	v.window.SetContent(v.content)
	v.window.Resize(fyne.NewSize(WindowWidth, WindowHeight))
	v.window.Show()
}
