// Package ui is the desktop front end: a main window that collects the image
// or URL to search for, and a results window per successful search.
package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"saucenao/acquire"
	"saucenao/databases"
	"saucenao/logging"
	"saucenao/models"
	"saucenao/results"
	"saucenao/session"
	"saucenao/storage"
)

// Dependencies are the services the main window drives
type Dependencies struct {
	// App defaults to a new desktop application
	App     fyne.App
	Storage *storage.Manager
	Runner  *session.Runner
	Logger  *zap.Logger
	// Initial is searched for as soon as the window is up, if set
	Initial *models.SearchInput
}

// MainWindow represents the main application window
type MainWindow struct {
	app     fyne.App
	window  fyne.Window
	storage *storage.Manager
	runner  *session.Runner
	logger  *zap.Logger
	initial *models.SearchInput

	settingsMu sync.Mutex // guards settings and filter
	settings   *models.Settings
	filter     databases.Filter

	picker   *DatabasePicker
	urlEntry *widget.Entry

	progressMu sync.Mutex
	progress   dialog.Dialog // shown while the current search runs
}

// NewMainWindow creates a new main window
func NewMainWindow(deps Dependencies) *MainWindow {
	myApp := deps.App
	if myApp == nil {
		myApp = app.NewWithID("com.saucenao.desktop")
	}
	myApp.SetIcon(theme.SearchIcon())

	window := myApp.NewWindow("SauceNAO")
	window.Resize(fyne.NewSize(480, 320))

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	mw := &MainWindow{
		app:     myApp,
		window:  window,
		storage: deps.Storage,
		runner:  deps.Runner,
		logger:  logger.Named("ui"),
		initial: deps.Initial,
	}

	settings, err := mw.storage.LoadSettings()
	if err != nil {
		mw.logger.Warn("failed to load settings, using defaults", zap.Error(err))
		settings = models.DefaultSettings()
	}
	mw.settings = settings
	mw.filter = databases.NewFilter(settings.SelectedDatabases...)

	mw.setupUI()
	return mw
}

// setupUI creates the user interface
func (mw *MainWindow) setupUI() {
	title := widget.NewLabelWithStyle("Search an image on SauceNAO", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})

	selectBtn := widget.NewButtonWithIcon("Select image", theme.FolderOpenIcon(), func() {
		mw.pickImage(func(path string) {
			mw.rememberDirectory(filepath.Dir(path))
			in, err := acquire.FromFile(path)
			if err != nil {
				dialog.ShowError(err, mw.window)
				return
			}
			mw.startSearch(in)
		})
	})
	selectBtn.Importance = widget.HighImportance

	mw.urlEntry = widget.NewEntry()
	mw.urlEntry.SetPlaceHolder("https://example.com/image.jpg")
	mw.urlEntry.OnSubmitted = func(string) { mw.searchURL() }
	urlBtn := widget.NewButtonWithIcon("Search URL", theme.SearchIcon(), mw.searchURL)

	pasteBtn := widget.NewButtonWithIcon("Paste", theme.ContentPasteIcon(), mw.searchClipboard)

	mw.picker = NewDatabasePicker(mw.currentFilter().Label(), mw.showDatabaseDialog)

	hint := widget.NewLabel("You can also drop an image or a link on this window.")
	hint.Wrapping = fyne.TextWrapWord

	content := container.NewVBox(
		title,
		selectBtn,
		container.NewBorder(nil, nil, nil, container.NewHBox(urlBtn, pasteBtn), mw.urlEntry),
		widget.NewSeparator(),
		container.NewBorder(nil, nil, widget.NewLabel("Databases:"), nil, mw.picker),
		hint,
	)

	mw.window.SetContent(container.NewPadded(content))
	mw.window.SetOnDropped(mw.handleDrop)
}

// ShowAndRun shows the window and runs the application
func (mw *MainWindow) ShowAndRun() {
	if mw.initial != nil {
		initial := *mw.initial
		mw.app.Lifecycle().SetOnStarted(func() {
			mw.startSearch(initial)
		})
	}
	mw.window.ShowAndRun()
}

func (mw *MainWindow) searchURL() {
	text := strings.TrimSpace(mw.urlEntry.Text)
	if text == "" {
		dialog.ShowInformation("Nothing to search", "Enter the URL of an image first.", mw.window)
		return
	}
	in, err := acquire.FromShared(text)
	if err != nil {
		dialog.ShowError(err, mw.window)
		return
	}
	mw.startSearch(in)
}

// searchClipboard treats the clipboard contents as shared text
func (mw *MainWindow) searchClipboard() {
	text := strings.TrimSpace(mw.window.Clipboard().Content())
	if text == "" {
		dialog.ShowInformation("Nothing to paste", "The clipboard does not contain a link or a file path.", mw.window)
		return
	}
	in, err := acquire.FromShared(text)
	if err != nil {
		dialog.ShowError(err, mw.window)
		return
	}
	if in.Kind == models.InputURL {
		mw.urlEntry.SetText(in.URL)
	}
	mw.startSearch(in)
}

func (mw *MainWindow) handleDrop(_ fyne.Position, uris []fyne.URI) {
	if len(uris) == 0 {
		return
	}
	u := uris[0]

	var (
		in  models.SearchInput
		err error
	)
	if u.Scheme() == "file" {
		in, err = acquire.FromFile(u.Path())
	} else {
		in, err = acquire.FromShared(u.String())
	}
	if err != nil {
		dialog.ShowError(err, mw.window)
		return
	}
	mw.startSearch(in)
}

// showDatabaseDialog lets the user choose which databases to search. An empty
// selection means all of them.
func (mw *MainWindow) showDatabaseDialog() {
	group := widget.NewCheckGroup(databases.Names(), nil)
	group.SetSelected(mw.currentFilter().Names())

	clearBtn := widget.NewButton("Clear", func() { group.SetSelected(nil) })
	scroll := container.NewVScroll(group)
	scroll.SetMinSize(fyne.NewSize(300, 380))

	var top fyne.CanvasObject
	if mw.runner.Busy() {
		top = widget.NewLabel("Changes apply to the next search.")
	}

	dialog.ShowCustomConfirm("Databases", "OK", "Cancel",
		container.NewBorder(top, clearBtn, nil, nil, scroll),
		func(ok bool) {
			if !ok {
				return
			}
			mw.setFilter(databases.FromNames(group.Selected))
		}, mw.window)
}

func (mw *MainWindow) currentFilter() databases.Filter {
	mw.settingsMu.Lock()
	defer mw.settingsMu.Unlock()
	return mw.filter
}

func (mw *MainWindow) setFilter(filter databases.Filter) {
	mw.settingsMu.Lock()
	mw.filter = filter
	mw.settings.SelectedDatabases = filter.Codes()
	mw.settingsMu.Unlock()

	mw.picker.SetText(filter.Label())
	mw.saveSettings()
}

func (mw *MainWindow) lastDirectory() string {
	mw.settingsMu.Lock()
	defer mw.settingsMu.Unlock()
	return mw.settings.LastDirectory
}

func (mw *MainWindow) rememberDirectory(dir string) {
	mw.settingsMu.Lock()
	if mw.settings.LastDirectory == dir {
		mw.settingsMu.Unlock()
		return
	}
	mw.settings.LastDirectory = dir
	mw.settingsMu.Unlock()
	mw.saveSettings()
}

func (mw *MainWindow) showHidden() bool {
	mw.settingsMu.Lock()
	defer mw.settingsMu.Unlock()
	return mw.settings.ShowHidden
}

func (mw *MainWindow) setShowHidden(show bool) {
	mw.settingsMu.Lock()
	mw.settings.ShowHidden = show
	mw.settingsMu.Unlock()
	mw.saveSettings()
}

func (mw *MainWindow) saveSettings() {
	mw.settingsMu.Lock()
	snapshot := *mw.settings
	snapshot.SelectedDatabases = append([]int(nil), mw.settings.SelectedDatabases...)
	mw.settingsMu.Unlock()

	if err := mw.storage.SaveSettings(&snapshot); err != nil {
		mw.logger.Error("failed to save settings", zap.Error(err))
	}
}

// startSearch runs the search in the background behind a progress dialog.
// Closing the dialog cancels the search and nothing else is shown. A search
// already running is replaced, along with its dialog.
func (mw *MainWindow) startSearch(in models.SearchInput) {
	progress := dialog.NewCustom("Searching", "Cancel", container.NewVBox(
		widget.NewLabel(in.Describe()),
		widget.NewProgressBarInfinite(),
	), mw.window)

	var (
		mu     sync.Mutex
		ticket session.Ticket
	)
	progress.SetOnClosed(func() {
		mu.Lock()
		t := ticket
		mu.Unlock()
		mw.runner.Cancel(t)
	})

	mw.progressMu.Lock()
	previous := mw.progress
	mw.progress = progress
	mw.progressMu.Unlock()
	if previous != nil {
		previous.Hide()
	}
	progress.Show()

	mu.Lock()
	ticket = mw.runner.Start(context.Background(), in, mw.currentFilter(), func(_ session.Ticket, outcome models.Outcome) {
		mw.dismissProgress(progress)
		mw.handleOutcome(outcome)
	})
	mu.Unlock()
}

// dismissProgress hides progress and forgets it if it is still the current one
func (mw *MainWindow) dismissProgress(progress dialog.Dialog) {
	mw.progressMu.Lock()
	if mw.progress == progress {
		mw.progress = nil
	}
	mw.progressMu.Unlock()
	progress.Hide()
}

func (mw *MainWindow) handleOutcome(outcome models.Outcome) {
	switch outcome.Status {
	case models.OutcomeOK:
		mw.showResults(outcome.Body)
	case models.OutcomeTooManyRequests:
		dialog.ShowInformation("Too many requests", "SauceNAO is limiting searches right now. Try again in a little while.", mw.window)
	case models.OutcomeGenericError:
		mw.logger.Warn("search failed",
			zap.String("request_id", logging.RequestID(outcome.Err)),
			zap.Int("status_code", outcome.StatusCode),
			zap.Error(outcome.Err),
		)
		dialog.ShowError(fmt.Errorf("unable to get results from SauceNAO"), mw.window)
	case models.OutcomeInterrupted:
		mw.logger.Debug("search interrupted", zap.Error(outcome.Err))
	}
}

func (mw *MainWindow) showResults(body string) {
	path, err := results.Save(filepath.Join(mw.storage.DataPath(), "results"), body)
	if err != nil {
		mw.logger.Warn("failed to save results page", zap.Error(err))
	}

	page, err := results.Parse(body)
	if err != nil {
		mw.logger.Warn("failed to parse results page", zap.Error(err))
		page = &results.Page{}
	}

	newResultsWindow(mw, page, path).Show()
}
