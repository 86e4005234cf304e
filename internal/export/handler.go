package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/erdcanvas/erdcanvas/backend-go/internal/auth"
	"github.com/erdcanvas/erdcanvas/backend-go/internal/diagram"
	"github.com/erdcanvas/erdcanvas/backend-go/internal/document"
)

const maxUploadSize = 4 << 20

// DocumentSource loads a stored diagram for a user. *diagram.Service
// satisfies it.
type DocumentSource interface {
	Latest(ctx context.Context, diagramID, userID string) (*document.Diagram, error)
}

type Handler struct {
	renderer *Renderer
	docs     DocumentSource
}

func NewHandler(renderer *Renderer, docs DocumentSource) *Handler {
	return &Handler{renderer: renderer, docs: docs}
}

// ExportStored renders the latest snapshot of a diagram the caller owns.
func (h *Handler) ExportStored(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	diagramID := mux.Vars(r)["diagramId"]

	doc, err := h.docs.Latest(r.Context(), diagramID, userID)
	if err != nil {
		switch {
		case errors.Is(err, diagram.ErrNotFound):
			http.Error(w, "not found", http.StatusNotFound)
		case errors.Is(err, diagram.ErrForbidden):
			http.Error(w, "forbidden", http.StatusForbidden)
		default:
			slog.Error("load diagram for export", "diagram", diagramID, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	h.writePNG(w, *doc)
}

// ExportPosted renders a diagram sent in the request body.
func (h *Handler) ExportPosted(w http.ResponseWriter, r *http.Request) {
	var doc document.Diagram
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUploadSize)).Decode(&doc); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := doc.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	h.writePNG(w, doc)
}

func (h *Handler) writePNG(w http.ResponseWriter, doc document.Diagram) {
	var buf bytes.Buffer
	if err := h.renderer.RenderPNG(&buf, doc); err != nil {
		if errors.Is(err, ErrTooLarge) {
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		slog.Error("render png", "diagram", doc.ID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.png"`, fileName(doc.Name)))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("write png", "error", err)
	}
}

func fileName(name string) string {
	if name == "" {
		return "diagram"
	}
	out := make([]rune, 0, len(name))
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			out = append(out, r)
		} else {
			out = append(out, '-')
		}
	}
	return string(out)
}
