package ui

import (
	"errors"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	fynestorage "fyne.io/fyne/v2/storage"
	"github.com/ncruces/zenity"
	"go.uber.org/zap"
)

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp", ".tif", ".tiff", ".avif"}

// pickImage asks the user for an image file. The native dialog is preferred,
// the fyne one is used where zenity is unavailable or fails. onPicked is not
// called when the user cancels.
func (mw *MainWindow) pickImage(onPicked func(path string)) {
	startPath := mw.lastDirectory()

	go func() {
		if zenity.IsAvailable() {
			patterns := make([]string, len(imageExtensions))
			for i, ext := range imageExtensions {
				patterns[i] = "*" + ext
			}
			filename, err := zenity.SelectFile(
				zenity.Title("Select image"),
				zenity.Filename(startPath),
				zenity.FileFilters{
					{Name: "Images", Patterns: patterns, CaseFold: true},
					{Name: "All files", Patterns: []string{"*"}, CaseFold: false},
				},
			)
			switch {
			case err == nil:
				if filename != "" {
					onPicked(filename)
				}
				return
			case errors.Is(err, zenity.ErrCanceled):
				return
			default:
				mw.logger.Warn("native file dialog failed, falling back", zap.Error(err))
			}
		}
		mw.openFyneFileDialog(startPath, onPicked)
	}()
}

// openFyneFileDialog is a fallback that uses the Fyne file dialog
func (mw *MainWindow) openFyneFileDialog(startPath string, onPicked func(path string)) {
	fileDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, mw.window)
			return
		}
		if reader == nil {
			return // cancelled
		}
		defer reader.Close()
		onPicked(reader.URI().Path())
	}, mw.window)
	fileDialog.SetFilter(fynestorage.NewExtensionFileFilter(imageExtensions))

	if startPath != "" {
		if listable, err := fynestorage.ListerForURI(fynestorage.NewFileURI(filepath.Clean(startPath))); err == nil {
			fileDialog.SetLocation(listable)
		}
	}

	fileDialog.Show()
}
