package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder(200, 100, nil)
	c := NewCanvas(r, nil)

	c.SetFillStyle("#ff0000")
	c.FillRect(10, 10, 20, 20, true)
	c.SetStrokeStyle("#00ff00")
	c.StrokeLine(0, 5, 50, 5, true)
	c.SetFont(TableFont)
	c.FillText("hi", 5, 15, TextStyle{Color: "#ffffff", Align: AlignRight}, true)
	c.FillRect(0, 0, 1, 1, true)

	cmds := r.Commands()
	require.Len(t, cmds, 4)

	assert.Equal(t, "fillRect", cmds[0].Op)
	assert.Equal(t, &Rect{X: 9.5, Y: 9.5, Width: 20, Height: 20}, cmds[0].Rect)
	assert.Equal(t, "#ff0000", cmds[0].Fill)

	assert.Equal(t, "path", cmds[1].Op)
	assert.Equal(t, []float64{-0.5, 4.5, 49.5, 4.5}, cmds[1].Points)
	assert.Equal(t, []int{0}, cmds[1].Moves)
	assert.Equal(t, "#00ff00", cmds[1].Stroke)

	assert.Equal(t, "text", cmds[2].Op)
	assert.Equal(t, "hi", cmds[2].Text)
	assert.Equal(t, AlignRight, cmds[2].Align)
	assert.Equal(t, "#ffffff", cmds[2].Fill)
	assert.Equal(t, TableFont.CSS(), cmds[2].Font)

	assert.Equal(t, "#ff0000", cmds[3].Fill, "text colour does not leak into later fills")
	assert.Equal(t, []string{"hi"}, r.Texts())

	c.Clear()
	assert.Len(t, r.Commands(), 1, "a full clear starts a new frame")
	r.Reset()
	assert.Empty(t, r.Commands())
}

func TestCanvasMeasureKeepsFont(t *testing.T) {
	r := NewRecorder(200, 100, nil)
	c := NewCanvas(r, nil)
	c.SetFont(RulerFont)

	assert.Equal(t, 24.0, c.Measure(TableFont, "abcd"))
	c.FillText("x", 0, 0, TextStyle{}, true)
	assert.Equal(t, RulerFont.CSS(), r.Commands()[0].Font)
}

func TestCellMeasurer(t *testing.T) {
	m := CellMeasurer{}
	assert.Equal(t, 12.0, m.Measure(TableFont, "ab"))
	assert.Equal(t, 24.0, m.Measure(TableFont, "한글"))
	assert.Equal(t, 8.0, CellMeasurer{CellRatio: 1}.Measure(Font{Size: 8}, "a"))
}

func TestDrawCommandsToJSON(t *testing.T) {
	out, err := DrawCommandsToJSON([]DrawCommand{{Op: "text", Text: "a", X: 1, Y: 2}})
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "text", decoded[0]["op"])
	assert.NotContains(t, decoded[0], "rect")

	assert.JSONEq(t, `{"x":1,"y":2,"width":3,"height":4}`, RectToJSON(Rect{X: 1, Y: 2, Width: 3, Height: 4}))
}

func TestFontCSS(t *testing.T) {
	assert.Equal(t, `normal 12px "Malgun Gothic"`, TableFont.CSS())
	assert.Equal(t, `bold 10px "Go"`, Font{Size: 10, Family: "Go", Bold: true}.CSS())
}

func TestTee(t *testing.T) {
	primary := NewRecorder(100, 50, CellMeasurer{CellRatio: 1})
	tee := NewTee(primary)
	c := NewCanvas(tee, nil)

	c.SetFillStyle("#123456")
	c.FillRect(1, 1, 4, 4, true)
	c.StrokeLine(0, 0, 10, 0, true)
	c.FillText("t", 2, 2, TextStyle{}, true)

	assert.Equal(t, primary.Commands(), tee.Commands())
	assert.Equal(t, 12.0, c.Measure(TableFont, "a"), "measures with the primary")

	tee.Resize(300, 200)
	w, h := primary.Size()
	assert.Equal(t, []float64{300, 200}, []float64{w, h})

	c.Clear()
	assert.Len(t, tee.Commands(), 1)
}
