package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// DatabasePicker looks like a drop-down showing the current database
// selection. Tapping it runs onTapped, which opens the multi-choice dialog.
type DatabasePicker struct {
	widget.BaseWidget
	text     string
	onTapped func()
	textObj  *canvas.Text
	bgRect   *canvas.Rectangle
}

// NewDatabasePicker creates a picker showing text
func NewDatabasePicker(text string, onTapped func()) *DatabasePicker {
	p := &DatabasePicker{
		text:     text,
		onTapped: onTapped,
	}
	p.ExtendBaseWidget(p)
	return p
}

// CreateRenderer implements fyne.Widget
func (p *DatabasePicker) CreateRenderer() fyne.WidgetRenderer {
	p.textObj = canvas.NewText(p.text, theme.ForegroundColor())
	p.textObj.Alignment = fyne.TextAlignLeading

	p.bgRect = canvas.NewRectangle(theme.InputBackgroundColor())
	p.bgRect.CornerRadius = theme.InputRadiusSize()

	icon := widget.NewIcon(theme.MenuDropDownIcon())
	row := container.NewBorder(nil, nil, nil, icon, container.NewPadded(p.textObj))

	return &databasePickerRenderer{
		picker:    p,
		container: container.NewStack(p.bgRect, row),
	}
}

// SetText updates the label text
func (p *DatabasePicker) SetText(text string) {
	p.text = text
	p.Refresh()
}

// Tapped implements fyne.Tappable
func (p *DatabasePicker) Tapped(*fyne.PointEvent) {
	if p.onTapped != nil {
		p.onTapped()
	}
}

// databasePickerRenderer implements fyne.WidgetRenderer
type databasePickerRenderer struct {
	picker    *DatabasePicker
	container *fyne.Container
}

func (r *databasePickerRenderer) MinSize() fyne.Size {
	return r.container.MinSize()
}

func (r *databasePickerRenderer) Layout(size fyne.Size) {
	r.container.Resize(size)
}

func (r *databasePickerRenderer) Refresh() {
	r.picker.textObj.Text = r.picker.text
	r.picker.textObj.Color = theme.ForegroundColor()
	r.picker.bgRect.FillColor = theme.InputBackgroundColor()
	r.picker.textObj.Refresh()
	r.picker.bgRect.Refresh()
}

func (r *databasePickerRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.container}
}

func (r *databasePickerRenderer) Destroy() {}
