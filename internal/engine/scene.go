package engine

import (
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/erdcanvas/erdcanvas/backend-go/internal/document"
	"github.com/erdcanvas/erdcanvas/backend-go/internal/typeid"
)

var ErrNoSurface = errors.New("scene needs a drawing surface")

// DefaultGridSize is the snapping step for placing and moving tables.
const DefaultGridSize = 20

// Commands accepted by Scene.Command.
const (
	CommandAddTable    = "ADD_TABLE"
	CommandAddColumn   = "ADD_COLUMN"
	CommandDeleteTable = "DELETE_TABLE"
	CommandCancel      = "CANCEL"
)

// State is the scene's interaction mode. Exactly one is live at a time and
// it alone decides which shape receives pointer input.
type State int

const (
	StateIdle State = iota
	StateAddingTable
	StateUntouchable
	StateTextEditing
	StatePanning
	StateMovingTable
)

func (s State) String() string {
	switch s {
	case StateAddingTable:
		return "ADDING_TABLE"
	case StateUntouchable:
		return "UNTOUCHABLE"
	case StateTextEditing:
		return "TEXT_EDITING"
	case StatePanning:
		return "PANNING"
	case StateMovingTable:
		return "MOVING_TABLE"
	default:
		return "IDLE"
	}
}

// Options wires a scene to its host.
type Options struct {
	Surface   Surface
	Container Container
	Scheduler Scheduler
	Clipboard Clipboard
	Overlay   Overlay
	Sink      TextSink
	Logger    *slog.Logger

	GridSize      float64
	BlinkInterval time.Duration
	// Debug outlines every editable cell.
	Debug bool
	// HideRuler skips the rulers, for exports.
	HideRuler bool
}

// inputListener receives pointer and key events routed by the scene.
type inputListener interface {
	pointerMove(ev PointerEvent)
	pointerUp(ev PointerEvent)
	keyDown(ev KeyEvent) bool
}

type listenerEntry struct {
	l       inputListener
	removed bool
}

// Scene owns the canvas, the shapes and the interaction state machine.
type Scene struct {
	canvas    *Canvas
	surface   Surface
	container Container
	sched     Scheduler
	clipboard Clipboard
	overlay   Overlay
	sink      TextSink
	log       *slog.Logger

	gridSize      float64
	blinkInterval time.Duration
	debug         bool
	showRuler     bool

	ruler  *Ruler
	shapes []Shape
	state  State
	focus  FocusOwner

	listeners []*listenerEntry
	buffered  []bufferedInput

	// In-progress interaction context.
	ghost    *Table
	moving   *Table
	dragDX   float64
	dragDY   float64
	bound    *Table
	selected *Table

	diagramID   string
	diagramName string
	version     int

	redraws int
}

func NewScene(opts Options) (*Scene, error) {
	if opts.Surface == nil {
		return nil, ErrNoSurface
	}
	s := &Scene{
		surface:       opts.Surface,
		container:     opts.Container,
		sched:         opts.Scheduler,
		clipboard:     opts.Clipboard,
		overlay:       opts.Overlay,
		sink:          opts.Sink,
		log:           opts.Logger,
		gridSize:      opts.GridSize,
		blinkInterval: opts.BlinkInterval,
		debug:         opts.Debug,
		showRuler:     !opts.HideRuler,
	}
	if s.sched == nil {
		s.sched = NewManualScheduler()
	}
	if s.clipboard == nil {
		s.clipboard = &MemoryClipboard{}
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.gridSize <= 0 {
		s.gridSize = DefaultGridSize
	}
	if s.blinkInterval <= 0 {
		s.blinkInterval = DefaultBlinkInterval
	}

	s.canvas = NewCanvas(s.surface, nil)
	s.ruler = NewRuler(s)
	s.canvas.viewport = s.ruler
	s.focus.onChange = s.focusChanged
	return s, nil
}

// --- Accessors ---

func (s *Scene) State() State         { return s.state }
func (s *Scene) Ruler() *Ruler        { return s.ruler }
func (s *Scene) GridSize() float64    { return s.gridSize }
func (s *Scene) Focused() *TextInput  { return s.focus.Current() }
func (s *Scene) Selected() *Table     { return s.selected }
func (s *Scene) Ghost() *Table        { return s.ghost }
func (s *Scene) BoundTable() *Table   { return s.bound }
func (s *Scene) Transform() Transform { return s.canvas.Transform() }

// Redraws counts repaints since the scene was created.
func (s *Scene) Redraws() int { return s.redraws }

// ListenerCount is the number of widgets still attached to the scene.
func (s *Scene) ListenerCount() int { return len(s.listeners) }

// Shapes returns the shapes in insertion order.
func (s *Scene) Shapes() []Shape { return append([]Shape(nil), s.shapes...) }

// Tables returns the committed tables in insertion order.
func (s *Scene) Tables() []*Table {
	var out []*Table
	for _, sh := range s.shapes {
		if t, ok := sh.(*Table); ok && !t.Ghost {
			out = append(out, t)
		}
	}
	return out
}

func (s *Scene) setState(st State) {
	if s.state == st {
		return
	}
	s.log.Debug("scene state", "from", s.state.String(), "to", st.String())
	s.state = st
}

func (s *Scene) focusChanged(current *TextInput) {
	if current != nil {
		s.setState(StateTextEditing)
		return
	}
	if s.state == StateTextEditing {
		s.setState(StateIdle)
	}
	if s.sink != nil {
		s.sink.Blur()
	}
}

func (s *Scene) listen(l inputListener) func() {
	e := &listenerEntry{l: l}
	s.listeners = append(s.listeners, e)
	return func() {
		if e.removed {
			return
		}
		e.removed = true
		live := s.listeners[:0]
		for _, x := range s.listeners {
			if !x.removed {
				live = append(live, x)
			}
		}
		s.listeners = live
	}
}

// eachListener iterates over a snapshot so handlers may dispose widgets.
func (s *Scene) eachListener(fn func(l inputListener) bool) {
	snapshot := append([]*listenerEntry(nil), s.listeners...)
	for _, e := range snapshot {
		if e.removed {
			continue
		}
		if fn(e.l) {
			return
		}
	}
}

// --- Shapes ---

func (s *Scene) AddShape(sh Shape) {
	s.shapes = append(s.shapes, sh)
}

// RemoveShape drops a shape from the scene and disposes it.
func (s *Scene) RemoveShape(sh Shape) {
	for i, x := range s.shapes {
		if x != sh {
			continue
		}
		s.shapes = append(s.shapes[:i], s.shapes[i+1:]...)
		if t, ok := sh.(*Table); ok {
			s.forgetTable(t)
		}
		sh.Dispose()
		return
	}
}

func (s *Scene) forgetTable(t *Table) {
	if s.ghost == t {
		s.ghost = nil
	}
	if s.moving == t {
		s.moving = nil
	}
	if s.selected == t {
		s.selected = nil
	}
	if s.bound == t {
		s.bound = nil
		if s.state == StateUntouchable {
			s.setState(StateIdle)
		}
	}
}

// paintOrder returns the shapes stable-sorted by ascending z-index.
func (s *Scene) paintOrder() []Shape {
	sorted := append([]Shape(nil), s.shapes...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Base().ZIndex < sorted[j].Base().ZIndex
	})
	return sorted
}

// Redraw clears the surface and paints every shape in z order, rulers last.
func (s *Scene) Redraw() {
	s.redraws++
	s.canvas.Clear()
	for _, sh := range s.paintOrder() {
		sh.Paint()
	}
	if s.showRuler {
		s.ruler.Paint()
	}
}

// FitToSize resizes the surface to the container's layout box. Call Redraw
// afterwards.
func (s *Scene) FitToSize() {
	if s.container == nil {
		return
	}
	w, h := s.container.Bounds()
	s.surface.Resize(w, h)
	s.canvas.ResetState()
}

type fixedViewport Transform

func (v fixedViewport) Transform() Transform { return Transform(v) }

// Frame pins the view so the logical rect r, grown by margin on every side,
// fills the surface exactly. Rulers stop painting. Headless exports frame
// the diagram extent before their only Redraw.
func (s *Scene) Frame(r Rect, margin float64) {
	s.surface.Resize(r.Width+2*margin, r.Height+2*margin)
	s.canvas.ResetState()
	s.canvas.viewport = fixedViewport{OriginX: r.X - margin, OriginY: r.Y - margin}
	s.showRuler = false
}

// SnapToGrid rounds a logical point to the grid.
func (s *Scene) SnapToGrid(x, y float64) (float64, float64) {
	return Snap(x, s.gridSize), Snap(y, s.gridSize)
}

// --- Commands ---

// Command runs a toolbar command by name. Unknown names do nothing. The
// scene is redrawn either way.
func (s *Scene) Command(name string) {
	switch name {
	case CommandAddTable:
		s.addTable()
	case CommandAddColumn:
		s.addColumn()
	case CommandDeleteTable:
		s.deleteSelected()
	case CommandCancel:
		s.cancel()
	default:
		s.log.Debug("unknown command", "command", name)
	}
	s.Redraw()
}

func (s *Scene) releaseInteraction() {
	switch s.state {
	case StateTextEditing:
		s.focus.Clear()
	case StateUntouchable:
		s.unbind()
	}
}

func (s *Scene) addTable() {
	if s.state == StateAddingTable {
		return
	}
	s.releaseInteraction()
	t := NewTable(s, document.NewTable(typeid.NewTableID()))
	t.Ghost = true
	t.Relative = false
	t.Place(HiddenPosition, HiddenPosition)
	s.AddShape(t)
	s.ghost = t
	s.setState(StateAddingTable)
	s.log.Debug("placing table", "table", t.ID)
}

func (s *Scene) addColumn() {
	if s.selected == nil {
		return
	}
	s.selected.AddColumn(document.Column{Name: "COLUMN", Type: "VARCHAR(45)", Nullable: true})
}

func (s *Scene) deleteSelected() {
	if s.selected == nil || s.state == StateMovingTable {
		return
	}
	t := s.selected
	s.releaseInteraction()
	s.RemoveShape(t)
	s.log.Debug("table deleted", "table", t.ID)
}

func (s *Scene) cancel() {
	switch s.state {
	case StateAddingTable:
		if s.ghost != nil {
			s.RemoveShape(s.ghost)
		}
		s.setState(StateIdle)
	default:
		s.releaseInteraction()
	}
}

// placeGhost commits the ghost table at a device point: its coordinates are
// rebased to logical space and snapped to the grid.
func (s *Scene) placeGhost(ev PointerEvent) {
	t := s.ghost
	if t == nil {
		s.setState(StateIdle)
		return
	}
	t.Place(ev.X, ev.Y)
	t.SetRelative(true)
	t.Place(s.SnapToGrid(t.X, t.Y))
	t.Ghost = false
	t.Visible = true
	s.ghost = nil
	s.selected = t
	s.setState(StateIdle)
	s.log.Debug("table placed", "table", t.ID, "x", t.X, "y", t.Y)
}

func (s *Scene) bindEditable(t *Table, e *Editable) {
	if s.bound != nil && s.bound != t {
		s.bound.Unbind()
	}
	if !t.Bind(e) {
		return
	}
	s.bound = t
	s.setState(StateUntouchable)
}

func (s *Scene) unbind() {
	if s.bound != nil {
		s.bound.Unbind()
		s.bound = nil
	}
	if s.state == StateUntouchable {
		s.setState(StateIdle)
	}
}

// --- Pointer input ---

func (s *Scene) PointerDown(ev PointerEvent) {
	switch s.state {
	case StateAddingTable:
		if !ev.OnCanvas {
			return
		}
		s.placeGhost(ev)
		s.Redraw()
		return
	case StateUntouchable:
		s.unbind()
		s.Redraw()
		return
	case StateTextEditing:
		if w := s.focus.Current(); w != nil && w.Contains(ev.X, ev.Y) {
			w.Press(ev)
			return
		}
		s.focus.Clear()
	}
	if s.state != StateIdle {
		return
	}

	if s.showRuler && s.ruler.Contains(ev.X, ev.Y) {
		s.beginPan(ev)
		return
	}

	order := s.paintOrder()
	for i := len(order) - 1; i >= 0; i-- {
		switch sh := order[i].(type) {
		case *Table:
			if s.pressTable(sh, ev) {
				return
			}
		case *TextInput:
			if sh.Contains(ev.X, ev.Y) {
				sh.Press(ev)
				return
			}
		case *Ruler:
			// rulers were tested first
		}
	}

	s.selected = nil
	s.beginPan(ev)
	s.Redraw()
}

// pressTable routes a press to a title input, a cell or the table body.
func (s *Scene) pressTable(t *Table, ev PointerEvent) bool {
	if t.Ghost || !t.Visible {
		return false
	}
	for _, in := range t.Inputs() {
		if in.Contains(ev.X, ev.Y) {
			s.selected = t
			in.Press(ev)
			return true
		}
	}
	if e, ok := t.EditableAt(ev.X, ev.Y); ok {
		s.selected = t
		s.bindEditable(t, e)
		s.Redraw()
		return true
	}
	if t.Contains(ev.X, ev.Y) {
		s.selected = t
		lx, ly := s.canvas.ToRelative(ev.X, ev.Y)
		s.moving = t
		s.dragDX, s.dragDY = lx-t.X, ly-t.Y
		s.setState(StateMovingTable)
		s.Redraw()
		return true
	}
	return false
}

func (s *Scene) beginPan(ev PointerEvent) {
	s.ruler.BeginPan(ev)
	s.setState(StatePanning)
}

func (s *Scene) PointerMove(ev PointerEvent) {
	switch s.state {
	case StateAddingTable:
		// the ghost hides while the pointer is off the canvas
		if s.ghost != nil {
			s.ghost.Visible = ev.OnCanvas
			if ev.OnCanvas {
				s.ghost.Place(ev.X, ev.Y)
			}
			s.Redraw()
		}
	case StatePanning:
		s.ruler.Pan(ev)
		s.Redraw()
	case StateMovingTable:
		if s.moving == nil {
			return
		}
		lx, ly := s.canvas.ToRelative(ev.X, ev.Y)
		x, y := s.SnapToGrid(lx-s.dragDX, ly-s.dragDY)
		if x != s.moving.X || y != s.moving.Y {
			s.moving.Place(x, y)
			s.Redraw()
		}
	case StateTextEditing:
		s.eachListener(func(l inputListener) bool {
			l.pointerMove(ev)
			return false
		})
	}
}

func (s *Scene) PointerUp(ev PointerEvent) {
	switch s.state {
	case StatePanning:
		s.ruler.EndPan()
		s.setState(StateIdle)
	case StateMovingTable:
		s.moving = nil
		s.setState(StateIdle)
	}
	s.eachListener(func(l inputListener) bool {
		l.pointerUp(ev)
		return false
	})
}

// Wheel pans by one wheel step.
func (s *Scene) Wheel(ev WheelEvent) {
	if s.state != StateIdle && s.state != StateTextEditing {
		return
	}
	s.ruler.Wheel(ev)
	s.Redraw()
}

// --- Keyboard, composition and clipboard ---

// KeyDown routes a keydown and reports whether the scene consumed it.
func (s *Scene) KeyDown(ev KeyEvent) bool {
	switch s.state {
	case StateAddingTable:
		if ev.Key == "Escape" {
			s.Command(CommandCancel)
			return true
		}
	case StateTextEditing:
		consumed := false
		s.eachListener(func(l inputListener) bool {
			consumed = l.keyDown(ev)
			return consumed
		})
		return consumed
	}
	return false
}

// bufferedInput is a composition or paste that arrived while a keydown
// reconciliation was pending. Owner is the widget focused at arrival.
type bufferedInput struct {
	owner       *TextInput
	paste       bool
	text        string
	composition CompositionEvent
}

// Composition buffers an IME event from the host. The focused widget picks
// it up in its next reconciliation, which is scheduled here if none is
// pending.
func (s *Scene) Composition(ev CompositionEvent) {
	w := s.focus.Current()
	if w == nil {
		return
	}
	s.buffered = append(s.buffered, bufferedInput{owner: w, composition: ev})
	if !w.hasPending() {
		w.scheduleReconcile(nil)
	}
}

// Paste delivers clipboard text from the host. With a keydown pending the
// text waits for that reconciliation; otherwise it is inserted right away.
func (s *Scene) Paste(text string) {
	s.clipboard.WriteText(text)
	w := s.focus.Current()
	if w == nil {
		return
	}
	if w.hasPending() {
		s.buffered = append(s.buffered, bufferedInput{owner: w, paste: true, text: text})
		return
	}
	w.Paste(text)
	s.Redraw()
}

// drainBuffered returns the events buffered for w in arrival order and
// discards everything else.
func (s *Scene) drainBuffered(w *TextInput) []bufferedInput {
	var out []bufferedInput
	for _, b := range s.buffered {
		if b.owner == w {
			out = append(out, b)
		}
	}
	s.buffered = nil
	return out
}

// dropBuffered forgets the events buffered for w.
func (s *Scene) dropBuffered(w *TextInput) {
	live := s.buffered[:0]
	for _, b := range s.buffered {
		if b.owner != w {
			live = append(live, b)
		}
	}
	s.buffered = live
}

// Copy returns the focused widget's selection for the host's copy event.
func (s *Scene) Copy() (string, bool) {
	w := s.focus.Current()
	if w == nil {
		return "", false
	}
	return w.Copy()
}

// Cut is Copy that also deletes the selection.
func (s *Scene) Cut() (string, bool) {
	w := s.focus.Current()
	if w == nil {
		return "", false
	}
	text, ok := w.Cut()
	if ok {
		s.Redraw()
	}
	return text, ok
}

// --- Data ---

// Load replaces every table with the diagram's tables.
func (s *Scene) Load(d document.Diagram) {
	s.releaseInteraction()
	for _, sh := range append([]Shape(nil), s.shapes...) {
		if _, ok := sh.(*Table); ok {
			s.RemoveShape(sh)
		}
	}
	s.setState(StateIdle)
	s.diagramID, s.diagramName, s.version = d.ID, d.Name, d.Version
	for _, td := range d.Tables {
		s.AddShape(NewTable(s, td))
	}
}

// Diagram returns the committed tables as plain data.
func (s *Scene) Diagram() document.Diagram {
	d := document.Diagram{
		ID:      s.diagramID,
		Name:    s.diagramName,
		Version: s.version,
		Tables:  []document.Table{},
	}
	for _, t := range s.Tables() {
		d.Tables = append(d.Tables, t.Data())
	}
	return d
}

// TableAt returns the topmost committed table under a device point.
func (s *Scene) TableAt(x, y float64) (*Table, bool) {
	order := s.paintOrder()
	for i := len(order) - 1; i >= 0; i-- {
		if t, ok := order[i].(*Table); ok && !t.Ghost && t.Contains(x, y) {
			return t, true
		}
	}
	return nil, false
}

// Extent returns the union of every committed table's outline in logical
// coordinates.
func (s *Scene) Extent() Rect {
	var r Rect
	for _, t := range s.Tables() {
		t.Layout()
		r = r.Union(t.Bounds())
	}
	return r
}
