package engine

import (
	"encoding/json"
	"fmt"

	"github.com/erdcanvas/erdcanvas/backend-go/internal/document"
)

// Engine is the host-facing facade over a Scene. It speaks JSON so the
// browser bridge stays thin.
type Engine struct {
	scene *Scene
}

// NewEngine creates a new engine instance.
func NewEngine(opts Options) (*Engine, error) {
	s, err := NewScene(opts)
	if err != nil {
		return nil, err
	}
	return &Engine{scene: s}, nil
}

func (e *Engine) Scene() *Scene { return e.scene }

// --- Commands (frontend → engine) ---

// LoadDiagram loads a diagram from JSON and repaints.
func (e *Engine) LoadDiagram(jsonData string) error {
	var d document.Diagram
	if err := json.Unmarshal([]byte(jsonData), &d); err != nil {
		return fmt.Errorf("decode diagram: %w", err)
	}
	if err := d.Validate(); err != nil {
		return err
	}
	e.scene.Load(d)
	e.scene.Redraw()
	return nil
}

// LoadSampleDiagram loads the built-in sample diagram.
func (e *Engine) LoadSampleDiagram(id string) {
	e.scene.Load(*document.NewSampleDiagram(id))
	e.scene.Redraw()
}

func (e *Engine) Command(name string) { e.scene.Command(name) }
func (e *Engine) Redraw()             { e.scene.Redraw() }

// FitToSize resizes the surface to its container and repaints.
func (e *Engine) FitToSize() {
	e.scene.FitToSize()
	e.scene.Redraw()
}

// --- Queries (frontend ← engine) ---

// DiagramJSON returns the current diagram as JSON.
func (e *Engine) DiagramJSON() (string, error) {
	data, err := json.Marshal(e.scene.Diagram())
	if err != nil {
		return "", fmt.Errorf("encode diagram: %w", err)
	}
	return string(data), nil
}

// Status is a snapshot of the interaction state for toolbars.
type Status struct {
	State    string  `json:"state"`
	OriginX  float64 `json:"originX"`
	OriginY  float64 `json:"originY"`
	Tables   int     `json:"tables"`
	Selected string  `json:"selected,omitempty"`
	Editing  bool    `json:"editing"`
}

func (e *Engine) Status() Status {
	s := e.scene
	ox, oy := s.Ruler().Origin()
	st := Status{
		State:   s.State().String(),
		OriginX: ox,
		OriginY: oy,
		Tables:  len(s.Tables()),
		Editing: s.Focused() != nil,
	}
	if t := s.Selected(); t != nil {
		st.Selected = t.ID
	}
	return st
}

// HitTest returns the ID of the topmost table under a device point, or "".
func (e *Engine) HitTest(x, y float64) string {
	if t, ok := e.scene.TableAt(x, y); ok {
		return t.ID
	}
	return ""
}

// commandSource is implemented by surfaces that keep their draw calls.
type commandSource interface {
	Commands() []DrawCommand
}

// DrawCommands returns the last frame as JSON when the engine paints onto
// a Recorder or a Tee.
func (e *Engine) DrawCommands() (string, error) {
	src, ok := e.scene.surface.(commandSource)
	if !ok {
		return "[]", fmt.Errorf("surface %T does not record draw commands", e.scene.surface)
	}
	return DrawCommandsToJSON(src.Commands())
}
