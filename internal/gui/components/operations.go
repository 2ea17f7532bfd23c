package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"open-denoise/internal/models"
)

const (
	ModeGPULabel = "Use GPU"
	ModeCPULabel = "Use CPU"
)

// OperationsPanel holds the output and processing controls below the list
type OperationsPanel struct {
	container        *fyne.Container
	OutputButton     *widget.Button
	outputLabel      *widget.Label
	ExportCheck      *widget.Check
	ModeRadio        *widget.RadioGroup
	ProcessButton    *widget.Button
	CancelButton     *widget.Button
	OpenFolderButton *widget.Button

	outputHandler     func()
	exportHandler     func(models.CheckState)
	modeHandler       func(models.ExecutionMode)
	processHandler    func()
	cancelHandler     func()
	openFolderHandler func()
}

func NewOperationsPanel() *OperationsPanel {
	op := &OperationsPanel{}

	op.OutputButton = widget.NewButton("Select Output Directory", func() {
		if op.outputHandler != nil {
			op.outputHandler()
		}
	})
	op.outputLabel = widget.NewLabel("")
	op.outputLabel.Truncation = fyne.TextTruncateEllipsis
	op.outputLabel.Hide()

	op.ExportCheck = widget.NewCheck("Export to original directory", op.onExportChanged)

	op.ModeRadio = widget.NewRadioGroup([]string{ModeGPULabel, ModeCPULabel}, func(selected string) {
		if op.modeHandler != nil && selected != "" {
			op.modeHandler(models.ParseExecutionMode(selected))
		}
	})
	op.ModeRadio.Horizontal = true
	op.ModeRadio.Required = true

	op.ProcessButton = widget.NewButton("Process and Save", func() {
		if op.processHandler != nil {
			op.processHandler()
		}
	})
	op.ProcessButton.Importance = widget.HighImportance

	op.CancelButton = widget.NewButton("Cancel", func() {
		if op.cancelHandler != nil {
			op.cancelHandler()
		}
	})
	op.CancelButton.Hide()

	op.OpenFolderButton = widget.NewButton("Open Output Folder", func() {
		if op.openFolderHandler != nil {
			op.openFolderHandler()
		}
	})
	op.OpenFolderButton.Hide()

	op.container = container.NewVBox(
		widget.NewLabel("Image Operations:"),
		op.OutputButton,
		op.outputLabel,
		op.ExportCheck,
		op.ModeRadio,
		container.NewStack(op.ProcessButton, op.CancelButton),
		op.OpenFolderButton,
	)
	return op
}

func (op *OperationsPanel) GetContainer() *fyne.Container {
	return op.container
}

// onExportChanged keeps the directory button in step with the checkbox.
func (op *OperationsPanel) onExportChanged(checked bool) {
	state := models.CheckStateOf(checked)
	if models.ExportEnabled(state) {
		op.OutputButton.Disable()
	} else {
		op.OutputButton.Enable()
	}

	if op.exportHandler != nil {
		op.exportHandler(state)
	}
}

func (op *OperationsPanel) SetOutputHandler(handler func()) {
	op.outputHandler = handler
}

func (op *OperationsPanel) SetExportHandler(handler func(models.CheckState)) {
	op.exportHandler = handler
}

func (op *OperationsPanel) SetModeHandler(handler func(models.ExecutionMode)) {
	op.modeHandler = handler
}

func (op *OperationsPanel) SetProcessHandler(handler func()) {
	op.processHandler = handler
}

func (op *OperationsPanel) SetCancelHandler(handler func()) {
	op.cancelHandler = handler
}

func (op *OperationsPanel) SetOpenFolderHandler(handler func()) {
	op.openFolderHandler = handler
}

// SetMode selects the radio option without firing the mode handler.
func (op *OperationsPanel) SetMode(mode models.ExecutionMode) {
	handler := op.modeHandler
	op.modeHandler = nil
	if mode == models.ModeGPU {
		op.ModeRadio.SetSelected(ModeGPULabel)
	} else {
		op.ModeRadio.SetSelected(ModeCPULabel)
	}
	op.modeHandler = handler
}

func (op *OperationsPanel) SetOutputDirectory(dir string) {
	if dir == "" {
		op.outputLabel.Hide()
		return
	}
	op.outputLabel.SetText(dir)
	op.outputLabel.Show()
}

func (op *OperationsPanel) OutputDirectory() string {
	return op.outputLabel.Text
}

// SetProcessing swaps the process button for the cancel button while a
// batch runs.
func (op *OperationsPanel) SetProcessing(active bool) {
	if active {
		op.ProcessButton.Hide()
		op.CancelButton.Show()
		op.OpenFolderButton.Hide()
	} else {
		op.CancelButton.Hide()
		op.ProcessButton.Show()
	}
}

func (op *OperationsPanel) ShowOpenFolder(show bool) {
	if show {
		op.OpenFolderButton.Show()
	} else {
		op.OpenFolderButton.Hide()
	}
}
