//go:build js && wasm

package main

import (
	"strconv"
	"syscall/js"
	"time"

	"github.com/erdcanvas/erdcanvas/backend-go/internal/engine"
)

// canvasSurface draws on a <canvas> 2D context.
type canvasSurface struct {
	el        js.Value
	ctx       js.Value
	width     float64
	height    float64
	lineWidth float64
}

func newCanvasSurface(el js.Value) *canvasSurface {
	s := &canvasSurface{el: el, ctx: el.Call("getContext", "2d"), lineWidth: 1}
	s.width = el.Get("width").Float()
	s.height = el.Get("height").Float()
	return s
}

func (s *canvasSurface) Size() (float64, float64) { return s.width, s.height }

// Resize also resets the context state, as the DOM does.
func (s *canvasSurface) Resize(width, height float64) {
	s.width, s.height = width, height
	s.el.Set("width", width)
	s.el.Set("height", height)
	s.lineWidth = 1
}

func (s *canvasSurface) ClearRect(x, y, w, h float64)  { s.ctx.Call("clearRect", x, y, w, h) }
func (s *canvasSurface) FillRect(x, y, w, h float64)   { s.ctx.Call("fillRect", x, y, w, h) }
func (s *canvasSurface) StrokeRect(x, y, w, h float64) { s.ctx.Call("strokeRect", x, y, w, h) }
func (s *canvasSurface) BeginPath()                    { s.ctx.Call("beginPath") }
func (s *canvasSurface) MoveTo(x, y float64)           { s.ctx.Call("moveTo", x, y) }
func (s *canvasSurface) LineTo(x, y float64)           { s.ctx.Call("lineTo", x, y) }
func (s *canvasSurface) Stroke()                       { s.ctx.Call("stroke") }

func (s *canvasSurface) FillText(text string, x, y float64) {
	s.ctx.Call("fillText", text, x, y)
}

func (s *canvasSurface) MeasureText(text string) float64 {
	return s.ctx.Call("measureText", text).Get("width").Float()
}

func (s *canvasSurface) SetFillStyle(color string)   { s.ctx.Set("fillStyle", color) }
func (s *canvasSurface) SetStrokeStyle(color string) { s.ctx.Set("strokeStyle", color) }
func (s *canvasSurface) LineWidth() float64          { return s.lineWidth }

func (s *canvasSurface) SetLineWidth(width float64) {
	s.lineWidth = width
	s.ctx.Set("lineWidth", width)
}

func (s *canvasSurface) SetFont(font engine.Font)        { s.ctx.Set("font", font.CSS()) }
func (s *canvasSurface) SetTextAlign(align engine.Align) { s.ctx.Set("textAlign", string(align)) }

type elementContainer struct{ el js.Value }

func (c elementContainer) Bounds() (float64, float64) {
	return c.el.Get("clientWidth").Float(), c.el.Get("clientHeight").Float()
}

// jsScheduler runs callbacks on browser timers. Defer uses a 1ms timeout so
// events the browser has already queued are dispatched first.
type jsScheduler struct{}

func (jsScheduler) Every(interval time.Duration, fn func()) *engine.Pending {
	var p *engine.Pending
	cb := js.FuncOf(func(js.Value, []js.Value) any {
		p.Tick(fn)
		return nil
	})
	id := js.Global().Call("setInterval", cb, interval.Milliseconds())
	p = engine.NewPending("every", func() {
		js.Global().Call("clearInterval", id)
		cb.Release()
	})
	return p
}

func (jsScheduler) Defer(name string, fn func()) *engine.Pending {
	var p *engine.Pending
	cb := js.FuncOf(func(js.Value, []js.Value) any {
		p.Resolve(fn)
		return nil
	})
	id := js.Global().Call("setTimeout", cb, 1)
	p = engine.NewPending(name, func() {
		js.Global().Call("clearTimeout", id)
		cb.Release()
	})
	return p
}

// inputOverlay is an absolutely positioned <input> over the canvas.
type inputOverlay struct {
	el     js.Value
	canvas js.Value
}

func (o *inputOverlay) place(box engine.Rect) {
	style := o.el.Get("style")
	left := o.canvas.Get("offsetLeft").Float() + box.X
	top := o.canvas.Get("offsetTop").Float() + box.Y
	style.Set("left", px(left))
	style.Set("top", px(top))
	style.Set("width", px(box.Width))
	style.Set("height", px(box.Height))
}

func (o *inputOverlay) Show(box engine.Rect, value, background string) {
	o.place(box)
	style := o.el.Get("style")
	style.Set("background", background)
	style.Set("display", "block")
	o.el.Set("value", value)
	o.el.Call("focus")
	n := len([]rune(value))
	o.el.Call("setSelectionRange", n, n)
}

func (o *inputOverlay) Move(box engine.Rect) { o.place(box) }

func (o *inputOverlay) Hide() {
	o.el.Get("style").Set("display", "none")
	o.el.Call("blur")
}

func (o *inputOverlay) Value() string { return o.el.Get("value").String() }

func (o *inputOverlay) OnKey(fn func()) func() {
	cb := js.FuncOf(func(js.Value, []js.Value) any {
		fn()
		return nil
	})
	o.el.Call("addEventListener", "keydown", cb)
	return func() {
		o.el.Call("removeEventListener", "keydown", cb)
		cb.Release()
	}
}

// textSink is the hidden <textarea> that receives keyboard, IME and
// clipboard events while a canvas text input has focus.
type textSink struct{ el js.Value }

func (s textSink) Focus() { s.el.Call("focus", map[string]any{"preventScroll": true}) }
func (s textSink) Blur()  { s.el.Call("blur") }

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
