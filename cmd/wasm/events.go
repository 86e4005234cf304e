//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/erdcanvas/erdcanvas/backend-go/internal/engine"
)

func modifiers(ev js.Value) engine.Modifiers {
	return engine.Modifiers{
		Shift: ev.Get("shiftKey").Bool(),
		Ctrl:  ev.Get("ctrlKey").Bool(),
		Meta:  ev.Get("metaKey").Bool(),
		Alt:   ev.Get("altKey").Bool(),
	}
}

// pointer converts a mouse event to canvas device coordinates.
func pointer(canvas, ev js.Value) engine.PointerEvent {
	rect := canvas.Call("getBoundingClientRect")
	return engine.PointerEvent{
		X:         ev.Get("clientX").Float() - rect.Get("left").Float(),
		Y:         ev.Get("clientY").Float() - rect.Get("top").Float(),
		Modifiers: modifiers(ev),
		OnCanvas:  ev.Get("target").Equal(canvas),
	}
}

func listen(target js.Value, event string, fn func(ev js.Value), opts ...map[string]any) {
	cb := js.FuncOf(func(_ js.Value, args []js.Value) any {
		fn(args[0])
		return nil
	})
	if len(opts) > 0 {
		target.Call("addEventListener", event, cb, opts[0])
		return
	}
	target.Call("addEventListener", event, cb)
}

// bindEvents routes DOM events into the scene. The listeners live as long
// as the page.
func bindEvents(scene *engine.Scene, canvas, sink js.Value) {
	window := js.Global().Get("window")

	listen(canvas, "mousedown", func(ev js.Value) {
		if ev.Get("button").Int() != 0 {
			return
		}
		ev.Call("preventDefault")
		scene.PointerDown(pointer(canvas, ev))
	})
	listen(window, "mousemove", func(ev js.Value) {
		scene.PointerMove(pointer(canvas, ev))
	})
	listen(window, "mouseup", func(ev js.Value) {
		scene.PointerUp(pointer(canvas, ev))
	})
	listen(canvas, "wheel", func(ev js.Value) {
		ev.Call("preventDefault")
		scene.Wheel(engine.WheelEvent{DeltaY: ev.Get("deltaY").Float(), Modifiers: modifiers(ev)})
	}, map[string]any{"passive": false})
	listen(window, "resize", func(js.Value) {
		eng.FitToSize()
	})

	listen(sink, "keydown", func(ev js.Value) {
		if ev.Get("isComposing").Bool() || ev.Get("keyCode").Int() == 229 {
			return
		}
		kev := engine.KeyEvent{Key: ev.Get("key").String(), Modifiers: modifiers(ev)}
		if !scene.KeyDown(kev) {
			return
		}
		// Clipboard shortcuts must reach the browser so it fires the
		// matching clipboard event.
		if kev.ClipboardShortcut() {
			return
		}
		ev.Call("preventDefault")
	})
	listen(window, "keydown", func(ev js.Value) {
		if ev.Get("target").Equal(sink) {
			return
		}
		if ev.Get("key").String() == "Escape" && scene.KeyDown(engine.KeyEvent{Key: "Escape"}) {
			ev.Call("preventDefault")
		}
	})

	composition := func(phase engine.CompositionPhase) func(js.Value) {
		return func(ev js.Value) {
			data := ev.Get("data")
			text := ""
			if data.Type() == js.TypeString {
				text = data.String()
			}
			scene.Composition(engine.CompositionEvent{Phase: phase, Data: text})
		}
	}
	listen(sink, "compositionstart", composition(engine.CompositionStart))
	listen(sink, "compositionupdate", composition(engine.CompositionUpdate))
	listen(sink, "compositionend", composition(engine.CompositionEnd))
	listen(sink, "input", func(ev js.Value) {
		if !ev.Get("isComposing").Bool() {
			sink.Set("value", "")
		}
	})

	listen(sink, "paste", func(ev js.Value) {
		ev.Call("preventDefault")
		scene.Paste(ev.Get("clipboardData").Call("getData", "text").String())
	})
	listen(sink, "copy", func(ev js.Value) {
		if text, ok := scene.Copy(); ok {
			ev.Get("clipboardData").Call("setData", "text/plain", text)
			ev.Call("preventDefault")
		}
	})
	listen(sink, "cut", func(ev js.Value) {
		if text, ok := scene.Cut(); ok {
			ev.Get("clipboardData").Call("setData", "text/plain", text)
			ev.Call("preventDefault")
		}
	})
}
