package gui

import (
	"net/url"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	ReleasesURL = "https://github.com/sun-jiao/OpenDenoise/releases"
	SourceURL   = "https://github.com/sun-jiao/OpenDenoise"
	SCUNetURL   = "https://github.com/cszn/SCUNet"
	PaperURL    = "https://link.springer.com/article/10.1007/s11633-023-1466-0"
)

// newLink builds a hyperlink that opens through open instead of the
// toolkit's own URL handling, so failures reach the logger.
func newLink(text, rawURL string, open func(string)) *widget.Hyperlink {
	parsed, _ := url.Parse(rawURL)
	link := widget.NewHyperlink(text, parsed)
	link.OnTapped = func() {
		open(rawURL)
	}
	return link
}

func notImplementedContent(open func(string)) fyne.CanvasObject {
	return container.NewVBox(
		widget.NewLabel("This feature is still in progress."),
		container.NewHBox(
			widget.NewLabel("It may appear in"),
			newLink("new releases", ReleasesURL, open),
			widget.NewLabel("."),
		),
	)
}

func aboutContent(open func(string)) fyne.CanvasObject {
	return container.NewVBox(
		widget.NewLabel("Open Denoise is a free and open-source image denoising app."),
		container.NewHBox(
			widget.NewLabel("It is powered by"),
			newLink("SCUNet", SCUNetURL, open),
			widget.NewLabel("("),
			newLink("paper", PaperURL, open),
			widget.NewLabel(")."),
		),
		widget.NewSeparator(),
		widget.NewLabel("This app is released under GPLv3. SCUNet is released under Apache 2.0."),
		newLink("Source code", SourceURL, open),
	)
}

// showInfoWindow opens a small standalone window with a Close button.
func showInfoWindow(app fyne.App, title string, content fyne.CanvasObject) fyne.Window {
	w := app.NewWindow(title)
	closeButton := widget.NewButton("Close", w.Close)
	w.SetContent(container.NewPadded(container.NewBorder(nil, container.NewCenter(closeButton), nil, nil, content)))
	w.SetFixedSize(true)
	w.CenterOnScreen()
	w.Show()
	return w
}
