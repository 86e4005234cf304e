package engine

import (
	"github.com/erdcanvas/erdcanvas/backend-go/internal/document"
)

const (
	TitleHeight  = 22
	RowHeight    = 19
	TableZIndex  = 10
	titlePadding = 2
)

// Header labels, in column order.
const (
	HeaderKey     = "Key"
	HeaderName    = "Name"
	HeaderType    = "Type"
	HeaderDefault = "Default"
	HeaderNull    = "Null"
	HeaderComment = "Comment"
)

var Headers = []string{HeaderKey, HeaderName, HeaderType, HeaderDefault, HeaderNull, HeaderComment}

// Editable binds a cell's box to a column field. Boxes are rebuilt on every
// paint and are in the same coordinates as the table's X and Y.
type Editable struct {
	X1, Y1, X2, Y2 float64
	Background     string
	Row            int
	Field          string

	Get func() string
	Set func(string)
}

// Contains is a strict test: points on the edge miss.
func (e *Editable) Contains(x, y float64) bool {
	return x > e.X1 && x < e.X2 && y > e.Y1 && y < e.Y2
}

// Table draws one entity: a title bar with name and comment inputs, a
// header row and a row per column.
type Table struct {
	ShapeBase
	scene *Scene

	ID    string
	Ghost bool

	PaddingLeft     float64
	PaddingRight    float64
	Font            Font
	TitleBackground string
	RowBackground   string
	TextColor       string

	columns      []document.Column
	nameInput    *TextInput
	commentInput *TextInput

	width   float64
	height  float64
	offsets []float64

	editables []*Editable

	bound      bool
	boundRow   int
	boundField string
	detachKey  func()
	syncing    *Pending
	disposed   bool
}

// NewTable builds a table shape from plain data.
func NewTable(s *Scene, data document.Table) *Table {
	t := &Table{
		ShapeBase:       newShapeBase(s.canvas, TableZIndex, true),
		scene:           s,
		ID:              data.ID,
		PaddingLeft:     5,
		PaddingRight:    5,
		Font:            TableFont,
		TitleBackground: "rgb(129, 129, 190)",
		RowBackground:   "rgb(33, 33, 34)",
		TextColor:       "#ffffff",
		columns:         append([]document.Column(nil), data.Columns...),
	}
	t.X, t.Y = data.X, data.Y

	t.nameInput = NewTextInput(s, data.Name)
	t.nameInput.Padding = Padding{Top: 2, Right: 1, Bottom: 2, Left: 5}
	t.commentInput = NewTextInput(s, data.Comment)
	t.commentInput.Padding = Padding{Top: 2, Right: 1, Bottom: 2, Left: 5}
	t.commentInput.Align = AlignRight
	t.Children = []Shape{t.nameInput, t.commentInput}
	return t
}

func (t *Table) isShape() {}

func (t *Table) Name() string    { return t.nameInput.Value() }
func (t *Table) Comment() string { return t.commentInput.Value() }

func (t *Table) SetName(v string)    { t.nameInput.SetValue(v) }
func (t *Table) SetComment(v string) { t.commentInput.SetValue(v) }

// Inputs returns the title inputs: name, then comment.
func (t *Table) Inputs() []*TextInput {
	return []*TextInput{t.nameInput, t.commentInput}
}

// Columns returns a copy of the rows.
func (t *Table) Columns() []document.Column {
	return append([]document.Column(nil), t.columns...)
}

func (t *Table) AddColumn(c document.Column) {
	t.columns = append(t.columns, c)
}

// Data returns the table as plain data.
func (t *Table) Data() document.Table {
	return document.Table{
		ID:      t.ID,
		Name:    t.Name(),
		Comment: t.Comment(),
		X:       t.X,
		Y:       t.Y,
		Columns: t.Columns(),
	}
}

// Place moves the table's top-left corner.
func (t *Table) Place(x, y float64) {
	t.X, t.Y = x, y
}

// Size returns the width and height from the latest layout.
func (t *Table) Size() (float64, float64) {
	return t.width, t.height
}

// Offsets returns the right edge of each header column relative to X.
func (t *Table) Offsets() []float64 {
	return append([]float64(nil), t.offsets...)
}

// Editables returns the cell bindings from the latest paint.
func (t *Table) Editables() []*Editable {
	return t.editables
}

func cellText(c document.Column, header string) string {
	switch header {
	case HeaderKey:
		if c.PrimaryKey {
			return "PK"
		}
		return ""
	case HeaderName:
		return c.Name
	case HeaderType:
		return c.Type
	case HeaderDefault:
		return c.DefaultValue
	case HeaderNull:
		if c.Nullable {
			return "Y"
		}
		return "N"
	default:
		return c.Comment
	}
}

// cellField returns the getter and setter of an editable text field.
func (t *Table) cellField(row int, header string) (func() string, func(string), bool) {
	var field func(c *document.Column) *string
	switch header {
	case HeaderName:
		field = func(c *document.Column) *string { return &c.Name }
	case HeaderType:
		field = func(c *document.Column) *string { return &c.Type }
	case HeaderDefault:
		field = func(c *document.Column) *string { return &c.DefaultValue }
	case HeaderComment:
		field = func(c *document.Column) *string { return &c.Comment }
	default:
		return nil, nil, false
	}
	get := func() string {
		if row >= len(t.columns) {
			return ""
		}
		return *field(&t.columns[row])
	}
	set := func(v string) {
		if row < len(t.columns) {
			*field(&t.columns[row]) = v
		}
	}
	return get, set, true
}

// Layout measures every header and cell and computes column offsets, width
// and height.
func (t *Table) Layout() {
	c := t.canvas
	widths := make([]float64, len(Headers))
	for i, h := range Headers {
		widths[i] = c.Measure(t.Font, h)
	}
	for _, col := range t.columns {
		for i, h := range Headers {
			widths[i] = max(widths[i], c.Measure(t.Font, cellText(col, h)))
		}
	}

	t.offsets = make([]float64, len(Headers))
	sum := 0.0
	for i := range Headers {
		sum += t.PaddingLeft + widths[i] + t.PaddingRight
		t.offsets[i] = sum
	}

	title := t.nameInput.Box().Width + t.commentInput.Box().Width + 4*titlePadding
	if title > sum {
		t.offsets[len(t.offsets)-1] = title
		sum = title
	}
	t.width = sum
	t.height = TitleHeight + RowHeight + RowHeight*float64(len(t.columns))
}

func (t *Table) colLeft(i int) float64 {
	if i == 0 {
		return 0
	}
	return t.offsets[i-1]
}

// Bounds returns the table outline in its own coordinates.
func (t *Table) Bounds() Rect {
	if t.offsets == nil {
		t.Layout()
	}
	return Rect{X: t.X, Y: t.Y, Width: t.width, Height: t.height}
}

// Contains reports whether a device point is inside the table outline.
func (t *Table) Contains(px, py float64) bool {
	x, y := t.toLocal(px, py)
	return t.Bounds().Contains(x, y)
}

func (t *Table) Paint() {
	if !t.Visible {
		return
	}
	t.Layout()
	c := t.canvas
	c.SetLineWidth(1)

	c.SetFillStyle(t.TitleBackground)
	t.fillRect(t.X, t.Y, t.width, TitleHeight)
	t.nameInput.Draw(t.X+titlePadding, t.Y+1, t.Relative)
	t.commentInput.Draw(t.X+t.width-titlePadding, t.Y+1, t.Relative)

	c.SetFont(t.Font)
	c.SetFillStyle(t.RowBackground)
	c.SetStrokeStyle(t.TitleBackground)
	text := TextStyle{Color: t.TextColor, Align: AlignLeft}

	top := t.Y + TitleHeight
	t.fillRect(t.X, top, t.width, RowHeight)
	for i, h := range Headers {
		t.fillText(h, t.X+t.colLeft(i)+t.PaddingLeft, top+13, text)
		t.strokeLine(t.X+t.offsets[i], top, t.X+t.offsets[i], top+RowHeight)
	}
	t.strokeLine(t.X, top+RowHeight, t.X+t.width, top+RowHeight)

	t.editables = make([]*Editable, 0, 4*len(t.columns))
	for r, col := range t.columns {
		rowTop := top + RowHeight*float64(r+1)
		t.fillRect(t.X, rowTop, t.width, RowHeight)
		for i, h := range Headers {
			left := t.X + t.colLeft(i)
			t.fillText(cellText(col, h), left+t.PaddingLeft, rowTop+14, text)
			if get, set, ok := t.cellField(r, h); ok {
				t.editables = append(t.editables, &Editable{
					X1:         left + 1,
					Y1:         rowTop + 1,
					X2:         t.X + t.offsets[i] - 1,
					Y2:         rowTop + RowHeight - 1,
					Background: t.RowBackground,
					Row:        r,
					Field:      h,
					Get:        get,
					Set:        set,
				})
			}
			t.strokeLine(t.X+t.offsets[i], rowTop, t.X+t.offsets[i], rowTop+RowHeight)
		}
		t.strokeLine(t.X, rowTop+RowHeight, t.X+t.width, rowTop+RowHeight)
	}

	t.strokeRect(t.X, t.Y, t.width, t.height)

	if t.scene.debug {
		c.SetStrokeStyle("red")
		for _, e := range t.editables {
			t.strokeRect(e.X1, e.Y1, e.X2-e.X1, e.Y2-e.Y1)
		}
	}
}

// EditableAt converts a device point to table coordinates and returns the
// first editable whose box contains it.
func (t *Table) EditableAt(px, py float64) (*Editable, bool) {
	x, y := t.toLocal(px, py)
	for _, e := range t.editables {
		if e.Contains(x, y) {
			return e, true
		}
	}
	return nil, false
}

func (t *Table) editableFor(row int, field string) (*Editable, bool) {
	for _, e := range t.editables {
		if e.Row == row && e.Field == field {
			return e, true
		}
	}
	return nil, false
}

// Bound returns the editable currently attached to the overlay.
func (t *Table) Bound() (*Editable, bool) {
	if !t.bound {
		return nil, false
	}
	return t.editableFor(t.boundRow, t.boundField)
}

func (t *Table) deviceBox(e *Editable) Rect {
	x1, y1 := t.toDevice(e.X1, e.Y1)
	x2, y2 := t.toDevice(e.X2, e.Y2)
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Bind attaches the scene's overlay over e. Any previous binding is
// released first.
func (t *Table) Bind(e *Editable) bool {
	overlay := t.scene.overlay
	if overlay == nil || t.disposed {
		return false
	}
	t.Unbind()
	t.bound = true
	t.boundRow, t.boundField = e.Row, e.Field
	overlay.Show(t.deviceBox(e), e.Get(), e.Background)
	t.detachKey = overlay.OnKey(func() {
		t.syncing.Cancel()
		t.syncing = t.scene.sched.Defer("sync-editable", t.syncBound)
	})
	return true
}

// syncBound copies the overlay's text into the bound field, repaints and
// moves the overlay to the cell's new box.
func (t *Table) syncBound() {
	e, ok := t.Bound()
	if !ok {
		return
	}
	e.Set(t.scene.overlay.Value())
	t.scene.Redraw()
	if e, ok = t.Bound(); ok {
		t.scene.overlay.Move(t.deviceBox(e))
	}
}

// Unbind commits the overlay's text, detaches its listener and hides it.
func (t *Table) Unbind() {
	if !t.bound {
		return
	}
	if e, ok := t.Bound(); ok {
		e.Set(t.scene.overlay.Value())
	}
	t.syncing.Cancel()
	t.syncing = nil
	if t.detachKey != nil {
		t.detachKey()
		t.detachKey = nil
	}
	t.scene.overlay.Hide()
	t.bound = false
}

func (t *Table) Dispose() {
	if t.disposed {
		return
	}
	t.Unbind()
	t.disposed = true
	t.nameInput.Dispose()
	t.commentInput.Dispose()
}
