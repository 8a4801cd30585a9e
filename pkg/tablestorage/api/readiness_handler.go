package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/tendant/table-storage/pkg/tablestorage"
)

// ReadinessResponse is the response body for /healthz/ready
type ReadinessResponse struct {
	Status   string            `json:"status"`
	Backends map[string]string `json:"backends,omitempty"`
}

// NewReadinessHandler reports ready when every locator that can check its
// backend does so successfully within timeout. Locators without a check are
// not listed.
func NewReadinessHandler(locators map[tablestorage.StorageType]tablestorage.Locator, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		resp := ReadinessResponse{Status: "ok", Backends: map[string]string{}}
		for typ, l := range locators {
			checker, ok := l.(tablestorage.BackendChecker)
			if !ok {
				continue
			}
			if err := checker.Check(ctx); err != nil {
				slog.Warn("Storage backend not ready", "type", typ.String(), "err", err)
				resp.Status = "unavailable"
				resp.Backends[typ.String()] = err.Error()
				continue
			}
			resp.Backends[typ.String()] = "ok"
		}

		if resp.Status != "ok" {
			render.Status(r, http.StatusServiceUnavailable)
		}
		render.JSON(w, r, resp)
	}
}
