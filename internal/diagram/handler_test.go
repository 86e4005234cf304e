package diagram

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erdcanvas/erdcanvas/backend-go/internal/auth"
	"github.com/erdcanvas/erdcanvas/backend-go/internal/document"
)

// asUser stands in for the JWT middleware.
func asUser(userID string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
		})
	}
}

type apiClient struct {
	t      *testing.T
	router *mux.Router
}

func newAPI(t *testing.T, svc *Service, userID string) *apiClient {
	r := mux.NewRouter()
	r.Use(asUser(userID))
	NewHandler(svc).Routes(r)
	return &apiClient{t: t, router: r}
}

func (c *apiClient) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestDiagramAPI(t *testing.T) {
	svc := NewService(newMemStore())
	api := newAPI(t, svc, alice)

	rec := api.do(http.MethodPost, "/diagrams", `{"name":"Billing","template":"sample"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[Diagram](t, rec)
	base := "/diagrams/" + created.ID

	rec = api.do(http.MethodGet, "/diagrams", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]Diagram](t, rec), 1)

	rec = api.do(http.MethodPatch, base, `{"name":"Invoices"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Invoices", decode[Diagram](t, rec).Name)

	rec = api.do(http.MethodGet, base+"/document", "")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := decode[document.Diagram](t, rec)
	assert.Equal(t, "Invoices", doc.Name)
	require.Len(t, doc.Tables, 1)
	assert.Equal(t, "ERG_MSR_DT", doc.Tables[0].Name)

	doc.Tables[0].X = 120
	body, err := json.Marshal(doc)
	require.NoError(t, err)
	rec = api.do(http.MethodPut, base+"/document", string(body))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	saved := decode[document.Diagram](t, rec)
	assert.Equal(t, 2, saved.Version)
	assert.Equal(t, 120.0, saved.Tables[0].X)

	rec = api.do(http.MethodPut, base+"/document", string(body))
	assert.Equal(t, http.StatusConflict, rec.Code, "resubmitting version 1")

	rec = api.do(http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = api.do(http.MethodGet, base, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDiagramAPIErrors(t *testing.T) {
	svc := NewService(newMemStore())
	d, err := svc.Create(t.Context(), "Billing", alice, TemplateEmpty)
	require.NoError(t, err)
	owner := newAPI(t, svc, alice)
	stranger := newAPI(t, svc, bob)
	base := "/diagrams/" + d.ID

	tests := []struct {
		name   string
		api    *apiClient
		method string
		path   string
		body   string
		status int
	}{
		{"create without name", owner, http.MethodPost, "/diagrams", `{"name":" "}`, http.StatusBadRequest},
		{"create bad json", owner, http.MethodPost, "/diagrams", `nope`, http.StatusBadRequest},
		{"create unknown template", owner, http.MethodPost, "/diagrams", `{"name":"x","template":"huge"}`, http.StatusBadRequest},
		{"rename empty", owner, http.MethodPatch, base, `{"name":""}`, http.StatusBadRequest},
		{"save bad json", owner, http.MethodPut, base + "/document", `{"tables":`, http.StatusBadRequest},
		{"save invalid", owner, http.MethodPut, base + "/document", `{"version":1,"tables":[{"id":""}]}`, http.StatusUnprocessableEntity},
		{"stranger get", stranger, http.MethodGet, base, "", http.StatusForbidden},
		{"stranger document", stranger, http.MethodGet, base + "/document", "", http.StatusForbidden},
		{"stranger delete", stranger, http.MethodDelete, base, "", http.StatusForbidden},
		{"unknown id", owner, http.MethodGet, "/diagrams/diag_01h455vb4pex5vsknk084sn02q", "", http.StatusNotFound},
		{"wrong method", owner, http.MethodPost, base, "{}", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := tt.api.do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}
