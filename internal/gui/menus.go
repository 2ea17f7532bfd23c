package gui

import (
	"fyne.io/fyne/v2"
)

// MenuActions are the callbacks behind the main menu entries
type MenuActions struct {
	Exit         func()
	Preferences  func()
	OpenReleases func()
	OpenSource   func()
	ShowAbout    func()
}

func buildMainMenu(actions MenuActions) *fyne.MainMenu {
	exit := fyne.NewMenuItem("Exit", actions.Exit)
	exit.IsQuit = true

	fileMenu := fyne.NewMenu("File", exit)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Preferences", actions.Preferences),
	)

	aboutMenu := fyne.NewMenu("About",
		fyne.NewMenuItem("Releases", actions.OpenReleases),
		fyne.NewMenuItem("Source Code", actions.OpenSource),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("About", actions.ShowAbout),
	)

	return fyne.NewMainMenu(fileMenu, editMenu, aboutMenu)
}
