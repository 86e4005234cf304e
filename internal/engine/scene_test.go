package engine

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erdcanvas/erdcanvas/backend-go/internal/document"
)

func TestNewSceneNeedsSurface(t *testing.T) {
	_, err := NewScene(Options{})
	assert.True(t, errors.Is(err, ErrNoSurface))
}

func TestNewSceneDefaults(t *testing.T) {
	s, err := NewScene(Options{Surface: NewRecorder(100, 100, nil)})
	require.NoError(t, err)
	assert.Equal(t, float64(DefaultGridSize), s.GridSize())
	assert.Equal(t, StateIdle, s.State())
	assert.Equal(t, DefaultBlinkInterval, s.blinkInterval)
}

func TestAddTablePlacement(t *testing.T) {
	h := newHarness(t)
	s := h.scene

	redraws := s.Redraws()
	s.Command(CommandAddTable)
	assert.Equal(t, redraws+1, s.Redraws())
	require.Equal(t, StateAddingTable, s.State())
	ghost := s.Ghost()
	require.NotNil(t, ghost)
	assert.False(t, ghost.Relative)
	assert.Equal(t, float64(HiddenPosition), ghost.X)
	assert.Empty(t, s.Tables(), "the ghost is not committed")

	s.PointerMove(PointerEvent{X: 200, Y: 150, OnCanvas: true})
	assert.Equal(t, 200.0, ghost.X)
	assert.Equal(t, 150.0, ghost.Y)

	s.PointerDown(PointerEvent{X: 237, Y: 173, OnCanvas: true})
	assert.Equal(t, StateIdle, s.State())
	assert.Nil(t, s.Ghost())
	tables := s.Tables()
	require.Len(t, tables, 1)
	tbl := tables[0]
	assert.Same(t, ghost, tbl)
	assert.True(t, tbl.Relative)
	assert.Equal(t, 200.0, tbl.X)
	assert.Equal(t, 160.0, tbl.Y)
	assert.Same(t, tbl, s.Selected())

	tr := s.Transform()
	dx, dy := tr.ToAbsolute(tbl.X, tbl.Y)
	assert.Zero(t, math.Mod(dx-RulerThickness-tr.Gutter, s.GridSize()))
	assert.Zero(t, math.Mod(dy-RulerThickness, s.GridSize()))
}

func TestGhostHidesOffCanvas(t *testing.T) {
	h := newHarness(t)
	s := h.scene
	s.Command(CommandAddTable)
	ghost := s.Ghost()
	require.NotNil(t, ghost)

	s.PointerMove(PointerEvent{X: 200, Y: 150, OnCanvas: true})
	assert.True(t, ghost.Visible)

	s.PointerMove(PointerEvent{X: 900, Y: 150})
	assert.False(t, ghost.Visible)
	assert.Equal(t, 200.0, ghost.X, "off-canvas moves do not drag the ghost")

	s.PointerDown(PointerEvent{X: 900, Y: 150})
	assert.Equal(t, StateAddingTable, s.State())
	assert.Empty(t, s.Tables())

	s.PointerMove(PointerEvent{X: 240, Y: 150, OnCanvas: true})
	assert.True(t, ghost.Visible)
	s.PointerDown(PointerEvent{X: 240, Y: 150, OnCanvas: true})
	require.Len(t, s.Tables(), 1)
	assert.True(t, s.Tables()[0].Visible)
}

func TestAddTableTwiceKeepsOneGhost(t *testing.T) {
	h := newHarness(t)
	h.scene.Command(CommandAddTable)
	h.scene.Command(CommandAddTable)
	assert.Len(t, h.scene.Shapes(), 1)
}

func TestAddTablePlacementAfterPan(t *testing.T) {
	h := newHarness(t)
	s := h.scene
	s.Wheel(WheelEvent{DeltaY: 1})
	s.Wheel(WheelEvent{DeltaY: 1, Modifiers: Modifiers{Ctrl: true}})

	s.Command(CommandAddTable)
	s.PointerDown(PointerEvent{X: 237, Y: 173, OnCanvas: true})
	tbl := s.Tables()[0]
	assert.Equal(t, 300.0, tbl.X)
	assert.Equal(t, 260.0, tbl.Y)
}

func TestEscapeCancelsAddTable(t *testing.T) {
	h := newHarness(t)
	s := h.scene
	s.Command(CommandAddTable)
	listeners := s.ListenerCount()
	require.Equal(t, 2, listeners)

	assert.True(t, s.KeyDown(KeyEvent{Key: "Escape"}))
	assert.Equal(t, StateIdle, s.State())
	assert.Nil(t, s.Ghost())
	assert.Empty(t, s.Shapes())
	assert.Equal(t, 0, s.ListenerCount())
}

func TestUnknownCommandRedraws(t *testing.T) {
	h := newHarness(t)
	s := h.scene
	redraws := s.Redraws()
	s.Command("FLY_TO_THE_MOON")
	assert.Equal(t, redraws+1, s.Redraws())
	assert.Equal(t, StateIdle, s.State())
}

func TestAddColumnAndDeleteTable(t *testing.T) {
	h := newHarness(t)
	s := h.scene
	tbl := loadTable(t, h)

	s.Command(CommandAddColumn)
	assert.Len(t, tbl.Columns(), 1, "nothing is selected yet")

	h.click(80, 110)
	require.Same(t, tbl, s.Selected())
	s.Command(CommandAddColumn)
	cols := tbl.Columns()
	require.Len(t, cols, 2)
	assert.Equal(t, document.Column{Name: "COLUMN", Type: "VARCHAR(45)", Nullable: true}, cols[1])

	s.Command(CommandDeleteTable)
	assert.Empty(t, s.Tables())
	assert.Nil(t, s.Selected())
	assert.Equal(t, 0, s.ListenerCount())
}

func TestDeleteWhileEditingReleasesFocus(t *testing.T) {
	h := newHarness(t)
	s := h.scene
	tbl := loadTable(t, h)

	h.click(95, 70)
	require.Same(t, tbl.Inputs()[0], s.Focused())
	require.Same(t, tbl, s.Selected())

	s.Command(CommandDeleteTable)
	assert.Nil(t, s.Focused())
	assert.Equal(t, StateIdle, s.State())
	assert.Equal(t, 0, h.sched.Active())
}

func TestTitleInputEditing(t *testing.T) {
	h := newHarness(t)
	s := h.scene
	tbl := loadTable(t, h)

	// the name input starts at logical x 42, text at 47
	h.click(35+47+6*5+1, 70)
	name := tbl.Inputs()[0]
	require.Same(t, name, s.Focused())
	assert.Equal(t, StateTextEditing, s.State())
	assert.Equal(t, Selection{5, 5}, name.Selection())
	assert.True(t, h.sink.focused)

	h.key("X", Modifiers{})
	assert.Equal(t, "TableX Name", tbl.Name())
	assert.Equal(t, "TableX Name", s.Diagram().Tables[0].Name)

	h.key("Escape", Modifiers{})
	assert.Equal(t, StateIdle, s.State())
}

func TestMoveTableSnaps(t *testing.T) {
	h := newHarness(t)
	s := h.scene
	tbl := loadTable(t, h)

	s.PointerDown(PointerEvent{X: 80, Y: 110, OnCanvas: true})
	require.Equal(t, StateMovingTable, s.State())

	redraws := s.Redraws()
	s.PointerMove(PointerEvent{X: 83, Y: 112})
	assert.Equal(t, 40.0, tbl.X)
	assert.Equal(t, redraws, s.Redraws(), "sub-grid moves do not repaint")

	s.PointerMove(PointerEvent{X: 127, Y: 133})
	assert.Equal(t, 80.0, tbl.X)
	assert.Equal(t, 60.0, tbl.Y)

	s.PointerUp(PointerEvent{X: 127, Y: 133})
	assert.Equal(t, StateIdle, s.State())
	s.PointerMove(PointerEvent{X: 400, Y: 400})
	assert.Equal(t, 80.0, tbl.X)
}

func TestPaintOrderIsStable(t *testing.T) {
	h := newHarness(t)
	s := h.scene
	d := document.Diagram{ID: "diag_z", Name: "Z", Version: 1}
	for i, name := range []string{"Alpha", "Beta", "Gamma"} {
		td := document.NewTable("tbl_" + name)
		td.Name = name
		td.X, td.Y = float64(40+i*20), 40
		d.Tables = append(d.Tables, td)
	}
	s.Load(d)
	s.Tables()[1].ZIndex = TableZIndex - 1
	s.Redraw()

	texts := h.rec.Texts()
	alpha := slices.Index(texts, "Alpha")
	beta := slices.Index(texts, "Beta")
	gamma := slices.Index(texts, "Gamma")
	require.True(t, alpha >= 0 && beta >= 0 && gamma >= 0)
	assert.Less(t, beta, alpha)
	assert.Less(t, alpha, gamma)
	assert.Less(t, gamma, slices.Index(texts, "5"), "rulers paint last")

	tbl, ok := s.TableAt(35+90, 20+90)
	require.True(t, ok)
	assert.Equal(t, "tbl_Gamma", tbl.ID, "the topmost table wins the hit test")
}

func TestLoadAndDiagram(t *testing.T) {
	h := newHarness(t)
	s := h.scene
	d := document.NewSampleDiagram("diag_sample")
	s.Load(*d)

	got := s.Diagram()
	assert.Equal(t, *d, got)
	assert.Equal(t, 2, s.ListenerCount())

	s.Load(*document.NewEmptyDiagram("diag_empty", "Empty"))
	assert.Empty(t, s.Tables())
	assert.Equal(t, 0, s.ListenerCount())
	got = s.Diagram()
	assert.Equal(t, "diag_empty", got.ID)
	assert.NotNil(t, got.Tables)
}

func TestLoadReleasesOverlay(t *testing.T) {
	h := newHarness(t)
	loadTable(t, h)
	h.click(120, 110)
	require.Equal(t, StateUntouchable, h.scene.State())

	h.scene.Load(*document.NewEmptyDiagram("diag_empty", "Empty"))
	assert.Equal(t, StateIdle, h.scene.State())
	assert.False(t, h.overlay.visible)
	assert.Nil(t, h.scene.BoundTable())
}

func TestExtent(t *testing.T) {
	h := newHarness(t)
	tbl := loadTable(t, h)
	assert.Equal(t, tbl.Bounds(), h.scene.Extent())
}

func TestFitToSize(t *testing.T) {
	h := newHarness(t)
	h.scene.FitToSize()
	w, ht := h.rec.Size()
	assert.Equal(t, 1024.0, w)
	assert.Equal(t, 768.0, ht)
}

func TestDebugOutlinesEditables(t *testing.T) {
	h := newHarness(t)
	h.scene.debug = true
	loadTable(t, h)
	red := 0
	for _, c := range h.rec.Commands() {
		if c.Op == "strokeRect" && c.Stroke == "red" {
			red++
		}
	}
	assert.Equal(t, 4, red)
}

func TestWheelIgnoredWhileBound(t *testing.T) {
	h := newHarness(t)
	loadTable(t, h)
	h.click(120, 110)
	h.scene.Wheel(WheelEvent{DeltaY: 1})
	_, y := h.scene.Ruler().Origin()
	assert.Equal(t, 0.0, y)
}
