package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"

	"github.com/chrisuehlinger/turbo/dom"
)

// surfaceRenderer draws a box for every laid-out element, in document
// order so that later elements sit on top. Elements with the "selected"
// or "active" class use the primary color.
type surfaceRenderer struct {
	s       *Surface
	bg      *canvas.Rectangle
	objects []fyne.CanvasObject
}

func (r *surfaceRenderer) rebuild() {
	if r.bg == nil {
		r.bg = canvas.NewRectangle(theme.Color(theme.ColorNameBackground))
	}
	r.objects = []fyne.CanvasObject{r.bg}
	body := r.s.doc.Body()
	if body == nil {
		return
	}
	for _, el := range body.QuerySelectorAll("*") {
		rect, ok := el.BoundingRect()
		if !ok || rect.Empty() {
			continue
		}
		box := canvas.NewRectangle(fillColor(el))
		box.StrokeColor = theme.Color(theme.ColorNameForeground)
		box.StrokeWidth = 1
		box.Move(fyne.NewPos(float32(rect.Min.X), float32(rect.Min.Y)))
		box.Resize(fyne.NewSize(float32(rect.Dx()), float32(rect.Dy())))
		r.objects = append(r.objects, box)

		if label := ownText(el); label != "" {
			txt := canvas.NewText(label, theme.Color(theme.ColorNameForeground))
			txt.TextSize = theme.CaptionTextSize()
			txt.Move(fyne.NewPos(float32(rect.Min.X)+2, float32(rect.Min.Y)+2))
			r.objects = append(r.objects, txt)
		}
	}
}

func fillColor(el *dom.Element) color.Color {
	cl := el.ClassList()
	if cl.Contains("selected") || cl.Contains("active") {
		return theme.Color(theme.ColorNamePrimary)
	}
	return theme.Color(theme.ColorNameButton)
}

// ownText returns the element's direct text children, joined.
func ownText(el *dom.Element) string {
	var text string
	for c := el.AsNode().FirstChild(); c != nil; c = c.NextSibling() {
		if c.NodeType() == dom.TextNode {
			text += c.TextContent()
		}
	}
	return text
}

func (r *surfaceRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
}

func (r *surfaceRenderer) MinSize() fyne.Size {
	if body := r.s.doc.Body(); body != nil {
		if rect, ok := body.BoundingRect(); ok {
			return fyne.NewSize(float32(rect.Max.X), float32(rect.Max.Y))
		}
	}
	return fyne.NewSize(100, 100)
}

func (r *surfaceRenderer) Refresh() {
	r.rebuild()
	r.Layout(r.s.Size())
	canvas.Refresh(r.s)
}

func (r *surfaceRenderer) Objects() []fyne.CanvasObject { return r.objects }

func (r *surfaceRenderer) Destroy() {}
