package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"open-denoise/internal/services"
	"open-denoise/internal/thumbnail"
)

const ListMinWidth = 200

// SelectionList renders one row per selected image: a toggle, the
// thumbnail and the display name.
type SelectionList struct {
	container    *fyne.Container
	rows         *fyne.Container
	SelectButton *widget.Button
	ClearButton  *widget.Button
	checks       []*widget.Check

	selectHandler  func()
	clearHandler   func()
	toggleHandler  func(int, bool)
	previewHandler func(int)
}

func NewSelectionList() *SelectionList {
	sl := &SelectionList{}

	sl.SelectButton = widget.NewButton("Select Images", func() {
		if sl.selectHandler != nil {
			sl.selectHandler()
		}
	})
	sl.ClearButton = widget.NewButton("Clear Images", func() {
		if sl.clearHandler != nil {
			sl.clearHandler()
		}
	})

	sl.rows = container.NewVBox()
	scroll := container.NewVScroll(sl.rows)
	scroll.SetMinSize(fyne.NewSize(ListMinWidth, 150))

	sl.container = container.NewBorder(
		container.NewGridWithColumns(2, sl.SelectButton, sl.ClearButton),
		nil, nil, nil,
		scroll,
	)
	return sl
}

func (sl *SelectionList) GetContainer() *fyne.Container {
	return sl.container
}

func (sl *SelectionList) SetSelectHandler(handler func()) {
	sl.selectHandler = handler
}

func (sl *SelectionList) SetClearHandler(handler func()) {
	sl.clearHandler = handler
}

func (sl *SelectionList) SetToggleHandler(handler func(index int, selected bool)) {
	sl.toggleHandler = handler
}

func (sl *SelectionList) SetPreviewHandler(handler func(index int)) {
	sl.previewHandler = handler
}

// SetRows replaces the rendered rows. An empty slice clears the list.
func (sl *SelectionList) SetRows(rows []services.Row) {
	sl.rows.RemoveAll()
	sl.checks = sl.checks[:0]

	for _, row := range rows {
		sl.rows.Add(sl.newRow(row))
	}
	sl.rows.Refresh()
}

func (sl *SelectionList) newRow(row services.Row) fyne.CanvasObject {
	index := row.Index

	check := widget.NewCheck("", nil)
	check.Checked = row.Image.Selected
	check.OnChanged = func(checked bool) {
		if sl.toggleHandler != nil {
			sl.toggleHandler(index, checked)
		}
	}
	sl.checks = append(sl.checks, check)

	thumb := canvas.NewImageFromImage(row.Thumbnail)
	thumb.FillMode = canvas.ImageFillStretch
	thumb.SetMinSize(fyne.NewSize(thumbnail.Size, thumbnail.Size))

	name := widget.NewButton(row.Image.DisplayName(), func() {
		if sl.previewHandler != nil {
			sl.previewHandler(index)
		}
	})
	name.Importance = widget.LowImportance
	name.Alignment = widget.ButtonAlignLeading
	if row.Err != nil {
		name.Importance = widget.WarningImportance
	}

	return container.NewBorder(nil, nil, container.NewHBox(check, thumb), nil, name)
}

func (sl *SelectionList) RowCount() int {
	return len(sl.checks)
}

// Check returns the toggle of row index, or nil when out of range.
func (sl *SelectionList) Check(index int) *widget.Check {
	if index < 0 || index >= len(sl.checks) {
		return nil
	}
	return sl.checks[index]
}
