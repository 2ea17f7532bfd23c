package components

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/dustin/go-humanize/english"
	"github.com/hako/durafmt"

	"open-denoise/internal/models"
	"open-denoise/internal/pipeline"
)

type StatusBar struct {
	container     *fyne.Container
	statusLabel   *widget.Label
	progressBar   *widget.ProgressBar
	selectionInfo *widget.Label
}

func NewStatusBar() *StatusBar {
	statusLabel := widget.NewLabel("Ready")
	statusLabel.Truncation = fyne.TextTruncateEllipsis

	progressBar := widget.NewProgressBar()
	progressBar.Hide()

	selectionInfo := widget.NewLabel("")

	mainContainer := container.NewBorder(
		nil, nil,
		nil,
		selectionInfo,
		container.NewStack(statusLabel, progressBar),
	)

	return &StatusBar{
		container:     mainContainer,
		statusLabel:   statusLabel,
		progressBar:   progressBar,
		selectionInfo: selectionInfo,
	}
}

func (sb *StatusBar) GetContainer() *fyne.Container {
	return sb.container
}

func (sb *StatusBar) SetStatus(status string) {
	sb.progressBar.Hide()
	sb.statusLabel.Show()
	sb.statusLabel.SetText(status)
}

func (sb *StatusBar) Status() string {
	return sb.statusLabel.Text
}

func (sb *StatusBar) SetSelectionStats(stats models.SelectionStats) {
	if stats.Total == 0 {
		sb.selectionInfo.SetText("")
		return
	}
	sb.selectionInfo.SetText(fmt.Sprintf("%d of %s selected", stats.Selected, english.Plural(stats.Total, "image", "")))
}

func (sb *StatusBar) SelectionInfo() string {
	return sb.selectionInfo.Text
}

func (sb *StatusBar) SetProgress(p pipeline.Progress) {
	sb.statusLabel.Hide()
	sb.progressBar.Show()
	sb.progressBar.SetValue(p.Fraction())
}

func (sb *StatusBar) SetReport(report models.BatchReport) {
	sb.SetStatus(FormatReport(report))
}

// FormatReport summarises a finished batch for the status line and the
// desktop notification.
func FormatReport(report models.BatchReport) string {
	summary := fmt.Sprintf("%s saved", english.Plural(report.Succeeded(), "image", ""))
	if failed := report.Failed(); failed > 0 {
		summary += fmt.Sprintf(", %d failed", failed)
	}
	if report.Cancelled {
		summary += ", cancelled"
	}
	summary += " in " + FormatDuration(report.Duration)
	if report.Fallback {
		summary += fmt.Sprintf(" (%s on CPU)", report.Backend)
	}
	return summary
}

func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return durafmt.Parse(d.Round(time.Second)).LimitFirstN(2).String()
}
