package auth

import (
	"net/http"
	"strings"

	"github.com/erdcanvas/erdcanvas/backend-go/internal/httpjson"
)

// MinPasswordLength is the shortest password Register accepts.
const MinPasswordLength = 8

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

var authStatuses = []httpjson.Status{
	{Err: ErrEmailTaken, Code: http.StatusConflict, Message: "email already registered"},
	{Err: ErrInvalidCredentials, Code: http.StatusUnauthorized, Message: "invalid credentials"},
	{Err: ErrUserNotFound, Code: http.StatusNotFound, Message: "user not found"},
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	credentials
	DisplayName string `json:"displayName"`
}

// problem returns the first reason the request is unusable, or "".
func (c credentials) problem() string {
	if c.Email == "" || c.Password == "" {
		return "email and password are required"
	}
	return ""
}

func (r registerRequest) problem() string {
	switch {
	case !strings.Contains(r.Email, "@") || r.Password == "" || strings.TrimSpace(r.DisplayName) == "":
		return "email, password and displayName are required"
	case len(r.Password) < MinPasswordLength:
		return "password must be at least 8 characters"
	}
	return ""
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpjson.Decode(w, r, httpjson.DefaultMaxBody, &req); err != nil {
		httpjson.Fail(w, r, "register", err)
		return
	}
	if msg := req.problem(); msg != "" {
		httpjson.Error(w, http.StatusBadRequest, msg)
		return
	}

	result, err := h.service.Register(r.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		httpjson.Fail(w, r, "register", err, authStatuses...)
		return
	}
	httpjson.Write(w, http.StatusCreated, result)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := httpjson.Decode(w, r, httpjson.DefaultMaxBody, &req); err != nil {
		httpjson.Fail(w, r, "login", err)
		return
	}
	if msg := req.problem(); msg != "" {
		httpjson.Error(w, http.StatusBadRequest, msg)
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httpjson.Fail(w, r, "login", err, authStatuses...)
		return
	}
	httpjson.Write(w, http.StatusOK, result)
}

// Me returns the signed-in user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUser(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		httpjson.Fail(w, r, "get user", err, authStatuses...)
		return
	}
	httpjson.Write(w, http.StatusOK, user)
}
