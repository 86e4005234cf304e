package diagram

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/erdcanvas/erdcanvas/backend-go/internal/auth"
	"github.com/erdcanvas/erdcanvas/backend-go/internal/document"
	"github.com/erdcanvas/erdcanvas/backend-go/internal/httpjson"
)

// MaxDocumentBytes bounds a posted document.
const MaxDocumentBytes = 4 << 20

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	Name     string   `json:"name"`
	Template Template `json:"template"`
}

type renameRequest struct {
	Name string `json:"name"`
}

// Routes registers the diagram endpoints on an authenticated router.
func (h *Handler) Routes(r *mux.Router) {
	r.HandleFunc("/diagrams", h.List).Methods(http.MethodGet)
	r.HandleFunc("/diagrams", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/diagrams/{diagramId}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/diagrams/{diagramId}", h.Rename).Methods(http.MethodPatch)
	r.HandleFunc("/diagrams/{diagramId}", h.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/diagrams/{diagramId}/document", h.GetDocument).Methods(http.MethodGet)
	r.HandleFunc("/diagrams/{diagramId}/document", h.SaveDocument).Methods(http.MethodPut)
}

var diagramStatuses = []httpjson.Status{
	{Err: ErrNotFound, Code: http.StatusNotFound, Message: "not found"},
	{Err: ErrForbidden, Code: http.StatusForbidden, Message: "forbidden"},
	{Err: ErrVersionConflict, Code: http.StatusConflict, Message: "diagram was changed by another save"},
	{Err: document.ErrInvalidDiagram, Code: http.StatusUnprocessableEntity},
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpjson.Decode(w, r, httpjson.DefaultMaxBody, &req); err != nil {
		httpjson.Fail(w, r, "create diagram", err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		httpjson.Error(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Template != TemplateEmpty && req.Template != TemplateSample {
		httpjson.Error(w, http.StatusBadRequest, "unknown template")
		return
	}

	d, err := h.service.Create(r.Context(), req.Name, auth.UserIDFromContext(r.Context()), req.Template)
	if err != nil {
		httpjson.Fail(w, r, "create diagram", err)
		return
	}
	httpjson.Write(w, http.StatusCreated, d)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Get(r.Context(), mux.Vars(r)["diagramId"], auth.UserIDFromContext(r.Context()))
	if err != nil {
		httpjson.Fail(w, r, "get diagram", err, diagramStatuses...)
		return
	}
	httpjson.Write(w, http.StatusOK, d)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	diagrams, err := h.service.List(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		httpjson.Fail(w, r, "list diagrams", err)
		return
	}
	httpjson.Write(w, http.StatusOK, diagrams)
}

func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := httpjson.Decode(w, r, httpjson.DefaultMaxBody, &req); err != nil {
		httpjson.Fail(w, r, "rename diagram", err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		httpjson.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	d, err := h.service.Rename(r.Context(), mux.Vars(r)["diagramId"], auth.UserIDFromContext(r.Context()), req.Name)
	if err != nil {
		httpjson.Fail(w, r, "rename diagram", err, diagramStatuses...)
		return
	}
	httpjson.Write(w, http.StatusOK, d)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["diagramId"], auth.UserIDFromContext(r.Context())); err != nil {
		httpjson.Fail(w, r, "delete diagram", err, diagramStatuses...)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.Latest(r.Context(), mux.Vars(r)["diagramId"], auth.UserIDFromContext(r.Context()))
	if err != nil {
		httpjson.Fail(w, r, "load document", err, diagramStatuses...)
		return
	}
	httpjson.Write(w, http.StatusOK, doc)
}

// SaveDocument stores a new version. The body's version must be the latest
// one the server holds.
func (h *Handler) SaveDocument(w http.ResponseWriter, r *http.Request) {
	var doc document.Diagram
	if err := httpjson.Decode(w, r, MaxDocumentBytes, &doc); err != nil {
		httpjson.Fail(w, r, "save document", err)
		return
	}

	saved, err := h.service.Save(r.Context(), mux.Vars(r)["diagramId"], auth.UserIDFromContext(r.Context()), &doc)
	if err != nil {
		httpjson.Fail(w, r, "save document", err, diagramStatuses...)
		return
	}
	httpjson.Write(w, http.StatusOK, saved)
}
