//go:build js && wasm

package main

import (
	"encoding/json"
	"log/slog"
	"os"
	"syscall/js"

	"github.com/erdcanvas/erdcanvas/backend-go/internal/engine"
)

var eng *engine.Engine

func main() {
	level := slog.LevelInfo
	if js.Global().Get("erdDebug").Truthy() {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	doc := js.Global().Get("document")
	container := element(doc, "erd-container", "div", doc.Get("body"))
	canvas := element(doc, "erd-canvas", "canvas", container)
	overlay := element(doc, "erd-overlay", "input", container)
	sink := element(doc, "erd-sink", "textarea", container)

	overlay.Get("style").Set("position", "absolute")
	overlay.Get("style").Set("display", "none")
	sink.Call("setAttribute", "aria-hidden", "true")
	sinkStyle := sink.Get("style")
	sinkStyle.Set("position", "absolute")
	sinkStyle.Set("opacity", "0")
	sinkStyle.Set("pointer-events", "none")
	sinkStyle.Set("width", "1px")
	sinkStyle.Set("height", "1px")

	var err error
	eng, err = engine.NewEngine(engine.Options{
		Surface:   engine.NewTee(newCanvasSurface(canvas)),
		Container: elementContainer{el: container},
		Scheduler: jsScheduler{},
		Clipboard: &engine.MemoryClipboard{},
		Overlay:   &inputOverlay{el: overlay, canvas: canvas},
		Sink:      textSink{el: sink},
		Logger:    slog.Default(),
		Debug:     js.Global().Get("erdDebug").Truthy(),
	})
	if err != nil {
		slog.Error("create engine", "error", err)
		return
	}
	bindEvents(eng.Scene(), canvas, sink)
	eng.FitToSize()

	erdEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → engine) ---
	erdEngine.Set("command", js.FuncOf(command))
	erdEngine.Set("redraw", js.FuncOf(redraw))
	erdEngine.Set("fitToSize", js.FuncOf(fitToSize))
	erdEngine.Set("loadDiagram", js.FuncOf(loadDiagram))
	erdEngine.Set("loadSampleDiagram", js.FuncOf(loadSampleDiagram))

	// --- Queries (frontend ← engine) ---
	erdEngine.Set("getDiagram", js.FuncOf(getDiagram))
	erdEngine.Set("getState", js.FuncOf(getState))
	erdEngine.Set("hitTest", js.FuncOf(hitTest))
	erdEngine.Set("getDrawCommands", js.FuncOf(getDrawCommands))

	js.Global().Set("erdEngine", erdEngine)
	js.Global().Set("erdWasmReady", js.ValueOf(true))
	slog.Info("erd engine ready")

	select {}
}

// element returns the element with id, creating it under parent when the
// page does not provide one.
func element(doc js.Value, id, tag string, parent js.Value) js.Value {
	el := doc.Call("getElementById", id)
	if el.Truthy() {
		return el
	}
	el = doc.Call("createElement", tag)
	el.Set("id", id)
	parent.Call("appendChild", el)
	return el
}

func errorResult(err error) any {
	return js.ValueOf(map[string]any{"error": err.Error()})
}

func okResult() any {
	return js.ValueOf(map[string]any{"ok": true})
}

// --- Command Handlers ---

func command(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(map[string]any{"error": "missing command name"})
	}
	eng.Command(args[0].String())
	return okResult()
}

func redraw(this js.Value, args []js.Value) any {
	eng.Redraw()
	return nil
}

func fitToSize(this js.Value, args []js.Value) any {
	eng.FitToSize()
	return nil
}

func loadDiagram(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(map[string]any{"error": "missing diagram JSON"})
	}
	if err := eng.LoadDiagram(args[0].String()); err != nil {
		return errorResult(err)
	}
	return okResult()
}

func loadSampleDiagram(this js.Value, args []js.Value) any {
	id := "diag_sample"
	if len(args) > 0 && args[0].Type() == js.TypeString {
		id = args[0].String()
	}
	eng.LoadSampleDiagram(id)
	return okResult()
}

// --- Query Handlers ---

func getDiagram(this js.Value, args []js.Value) any {
	out, err := eng.DiagramJSON()
	if err != nil {
		return errorResult(err)
	}
	return js.ValueOf(out)
}

func getState(this js.Value, args []js.Value) any {
	data, err := json.Marshal(eng.Status())
	if err != nil {
		return errorResult(err)
	}
	return js.ValueOf(string(data))
}

func hitTest(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return js.ValueOf("")
	}
	return js.ValueOf(eng.HitTest(args[0].Float(), args[1].Float()))
}

func getDrawCommands(this js.Value, args []js.Value) any {
	out, err := eng.DrawCommands()
	if err != nil {
		return errorResult(err)
	}
	return js.ValueOf(out)
}
