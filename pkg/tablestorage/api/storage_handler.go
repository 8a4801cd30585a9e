package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/table-storage/pkg/tablestorage"
)

// SelectionResponse is the response body for a storage selection
type SelectionResponse struct {
	Namespace  string            `json:"namespace"`
	Table      string            `json:"table"`
	Type       string            `json:"type"`
	Properties map[string]string `json:"properties"`
	Location   string            `json:"location,omitempty"`
}

// BackendResponse is the response body for a registered backend
type BackendResponse struct {
	Type       string            `json:"type"`
	Default    bool              `json:"default"`
	Properties map[string]string `json:"properties"`
}

// ErrorResponse is the response body for a failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// StorageHandler handles HTTP requests for storage selection
type StorageHandler struct {
	selector *tablestorage.Selector
	registry *tablestorage.Registry
	locators map[tablestorage.StorageType]tablestorage.Locator
}

// NewStorageHandler creates a new storage handler. locators may be nil, in
// which case responses carry no location.
func NewStorageHandler(selector *tablestorage.Selector, registry *tablestorage.Registry, locators map[tablestorage.StorageType]tablestorage.Locator) *StorageHandler {
	return &StorageHandler{
		selector: selector,
		registry: registry,
		locators: locators,
	}
}

// Routes returns the routes for storage selection
func (h *StorageHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/selection", h.SelectStorage)
	r.Get("/backends", h.ListBackends)
	r.Get("/backends/{type}", h.GetBackend)

	return r
}

// SelectStorage returns the backend chosen for ?namespace=&table=
func (h *StorageHandler) SelectStorage(w http.ResponseWriter, r *http.Request) {
	namespace := strings.TrimSpace(r.URL.Query().Get("namespace"))
	table := strings.TrimSpace(r.URL.Query().Get("table"))
	if namespace == "" || table == "" {
		writeError(w, r, http.StatusBadRequest, "namespace and table are required")
		return
	}

	d, err := h.selector.SelectStorage(r.Context(), namespace, table)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, tablestorage.ErrNoMatchingBackend) {
			status = http.StatusUnprocessableEntity
		}
		slog.Error("Failed to select storage", "namespace", namespace, "table", table, "err", err)
		writeError(w, r, status, err.Error())
		return
	}

	resp := SelectionResponse{
		Namespace:  namespace,
		Table:      table,
		Type:       d.Type().String(),
		Properties: redact(d.Properties()),
	}

	if l, ok := h.locators[d.Type()]; ok {
		location, err := l.TableLocation(namespace, table)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		resp.Location = location
	}

	render.JSON(w, r, resp)
}

// ListBackends lists all registered backends
func (h *StorageHandler) ListBackends(w http.ResponseWriter, r *http.Request) {
	types := h.registry.Types()
	resp := make([]BackendResponse, 0, len(types))
	for _, typ := range types {
		d, err := h.registry.Backend(typ)
		if err != nil {
			writeError(w, r, http.StatusInternalServerError, err.Error())
			return
		}
		resp = append(resp, toBackendResponse(d, typ == h.registry.DefaultType()))
	}

	render.JSON(w, r, resp)
}

// GetBackend retrieves a backend by type
func (h *StorageHandler) GetBackend(w http.ResponseWriter, r *http.Request) {
	typ := tablestorage.StorageType(chi.URLParam(r, "type"))

	d, err := h.registry.Backend(typ)
	if err != nil {
		writeError(w, r, http.StatusNotFound, err.Error())
		return
	}

	render.JSON(w, r, toBackendResponse(d, typ == h.registry.DefaultType()))
}

func toBackendResponse(d tablestorage.Descriptor, isDefault bool) BackendResponse {
	return BackendResponse{
		Type:       d.Type().String(),
		Default:    isDefault,
		Properties: redact(d.Properties()),
	}
}

// redact hides credential-like properties from the catalogue
func redact(props map[string]string) map[string]string {
	for k := range props {
		lk := strings.ToLower(k)
		if strings.Contains(lk, "secret") || strings.Contains(lk, "password") || strings.Contains(lk, "token") {
			props[k] = "***"
		}
	}
	return props
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: msg})
}
