package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/table-storage/pkg/tablestorage"
	"github.com/tendant/table-storage/pkg/tablestorage/storage"
	"github.com/tendant/table-storage/pkg/tablestorage/strategy"
)

// setupStorageHandlerTest creates a StorageHandler over hdfs (default), local and an
// unlocatable custom backend, routing "tracking*" to local and failing everything else
// that matches no rule
func setupStorageHandlerTest(t *testing.T) http.Handler {
	t.Helper()

	registry, err := tablestorage.NewRegistry([]tablestorage.Descriptor{
		tablestorage.NewDescriptor(tablestorage.StorageTypeHDFS, map[string]string{
			"rootpath": "/data/openhouse",
			"endpoint": "hdfs://localhost:9000",
			"token":    "hunter2",
		}),
		tablestorage.NewDescriptor(tablestorage.StorageTypeLocal, map[string]string{"rootpath": "/tmp/openhouse"}),
		tablestorage.NewDescriptor("custom", map[string]string{"secret_key": "abc"}),
	}, tablestorage.StorageTypeHDFS)
	require.NoError(t, err)

	s, err := strategy.NewNamespaceRules(registry, []strategy.Rule{
		{Namespace: "tracking*", Type: tablestorage.StorageTypeLocal},
		{Namespace: "db*", Type: tablestorage.StorageTypeHDFS},
		{Namespace: "custom", Type: "custom"},
	}, "")
	require.NoError(t, err)

	selector, err := tablestorage.New(s, tablestorage.WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	require.NoError(t, err)

	locators, err := storage.NewLocators(registry)
	require.NoError(t, err)

	return NewStorageHandler(selector, registry, locators).Routes()
}

func TestStorageHandler_SelectStorage_Success(t *testing.T) {
	router := setupStorageHandlerTest(t)

	tests := []struct {
		namespace    string
		table        string
		wantType     string
		wantLocation string
	}{
		{"db1", "t1", "hdfs", "hdfs://localhost:9000/data/openhouse/db1/t1"},
		{"tracking", "events", "local", "/tmp/openhouse/tracking/events"},
		{"custom", "t1", "custom", ""},
	}

	for _, tt := range tests {
		t.Run(tt.namespace+"."+tt.table, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/selection?namespace="+tt.namespace+"&table="+tt.table, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)

			var resp SelectionResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.namespace, resp.Namespace)
			assert.Equal(t, tt.table, resp.Table)
			assert.Equal(t, tt.wantType, resp.Type)
			assert.Equal(t, tt.wantLocation, resp.Location)
		})
	}
}

func TestStorageHandler_SelectStorage_RedactsSecrets(t *testing.T) {
	router := setupStorageHandlerTest(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/selection?namespace=db1&table=t1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SelectionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "***", resp.Properties["token"])
	assert.Equal(t, "/data/openhouse", resp.Properties["rootpath"])
	assert.NotContains(t, rec.Body.String(), "hunter2")
}

func TestStorageHandler_SelectStorage_Errors(t *testing.T) {
	router := setupStorageHandlerTest(t)

	tests := []struct {
		name       string
		query      string
		wantStatus int
	}{
		{"missing namespace", "?table=t1", http.StatusBadRequest},
		{"missing table", "?namespace=db1", http.StatusBadRequest},
		{"blank values", "?namespace=%20&table=t1", http.StatusBadRequest},
		{"no matching backend", "?namespace=other&table=t1", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/selection"+tt.query, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestStorageHandler_ListBackends(t *testing.T) {
	router := setupStorageHandlerTest(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/backends", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []BackendResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 3)

	assert.Equal(t, "custom", resp[0].Type)
	assert.False(t, resp[0].Default)
	assert.Equal(t, "***", resp[0].Properties["secret_key"])
	assert.Equal(t, "hdfs", resp[1].Type)
	assert.True(t, resp[1].Default)
	assert.Equal(t, "local", resp[2].Type)
}

func TestStorageHandler_GetBackend(t *testing.T) {
	router := setupStorageHandlerTest(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/backends/local", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp BackendResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "local", resp.Type)
	assert.Equal(t, "/tmp/openhouse", resp.Properties["rootpath"])

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/backends/gcs", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
