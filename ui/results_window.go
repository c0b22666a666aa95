package ui

import (
	"fmt"
	"net/url"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	fynestorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"saucenao/results"
)

// resultsWindow shows one results page
type resultsWindow struct {
	parent  *MainWindow
	window  fyne.Window
	page    *results.Page
	savedAt string
	list    *fyne.Container
	summary *widget.Label
}

func newResultsWindow(parent *MainWindow, page *results.Page, savedAt string) *resultsWindow {
	rw := &resultsWindow{
		parent:  parent,
		window:  parent.app.NewWindow("SauceNAO results"),
		page:    page,
		savedAt: savedAt,
		list:    container.NewVBox(),
		summary: widget.NewLabel(""),
	}
	rw.window.Resize(fyne.NewSize(640, 720))
	rw.setupUI()
	return rw
}

func (rw *resultsWindow) setupUI() {
	openBtn := widget.NewButtonWithIcon("Open in browser", theme.ComputerIcon(), rw.openInBrowser)
	if rw.savedAt == "" {
		openBtn.Disable()
	}

	hiddenCheck := widget.NewCheck(fmt.Sprintf("Show low similarity results (%d)", rw.page.HiddenCount()), func(show bool) {
		rw.parent.setShowHidden(show)
		rw.refresh(show)
	})
	hiddenCheck.SetChecked(rw.parent.showHidden())

	toolbar := container.NewHBox(openBtn, hiddenCheck)

	rw.refresh(hiddenCheck.Checked)

	rw.window.SetContent(container.NewBorder(
		container.NewVBox(toolbar, rw.summary, widget.NewSeparator()),
		nil, nil, nil,
		container.NewVScroll(rw.list),
	))
}

// Show displays the window
func (rw *resultsWindow) Show() {
	rw.window.Show()
}

func (rw *resultsWindow) refresh(showHidden bool) {
	matches := rw.page.Visible(showHidden)

	rw.list.RemoveAll()
	switch {
	case len(rw.page.Matches) == 0:
		rw.summary.SetText("No matches could be read from this page. Open it in the browser to see it as SauceNAO sent it.")
	case len(matches) == 0:
		rw.summary.SetText(fmt.Sprintf("Only low similarity results were found (%d).", rw.page.HiddenCount()))
	default:
		text := fmt.Sprintf("%d results", len(matches))
		if best, ok := rw.page.Best(); ok && (showHidden || !best.Hidden) {
			text += fmt.Sprintf(", best match %.2f%%", best.Similarity)
		}
		rw.summary.SetText(text)
	}

	for _, m := range matches {
		rw.list.Add(matchCard(m))
	}
	rw.list.Refresh()
}

func matchCard(m results.Match) fyne.CanvasObject {
	title := m.Title
	if title == "" {
		title = "Untitled"
	}

	body := container.NewVBox()
	if len(m.Content) > 0 {
		content := widget.NewLabel(strings.Join(m.Content, "\n"))
		content.Wrapping = fyne.TextWrapWord
		body.Add(content)
	}
	for _, link := range m.Links {
		u, err := url.Parse(link.URL)
		if err != nil {
			continue
		}
		body.Add(widget.NewHyperlink(link.Text, u))
	}

	subtitle := fmt.Sprintf("%.2f%% similarity", m.Similarity)
	if m.Hidden {
		subtitle += " (low)"
	}
	return widget.NewCard(title, subtitle, body)
}

// openInBrowser hands the saved page, untouched, to the system browser
func (rw *resultsWindow) openInBrowser() {
	u, err := url.Parse(fynestorage.NewFileURI(rw.savedAt).String())
	if err != nil {
		dialog.ShowError(err, rw.window)
		return
	}
	if err := rw.parent.app.OpenURL(u); err != nil {
		rw.parent.logger.Warn("failed to open results in browser", zap.String("path", rw.savedAt), zap.Error(err))
		dialog.ShowError(err, rw.window)
	}
}
