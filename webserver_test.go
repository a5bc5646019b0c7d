package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestServer(t *testing.T) (*WebServer, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)
	config := DefaultConfig()
	ws := NewWebServer(config, NewReportGenerator(config, WithLogger(logger)), logger)
	ws.now = func() time.Time { return testNow }
	return ws, logs
}

func reportBody(t *testing.T, n int) *bytes.Reader {
	t.Helper()
	data, err := json.Marshal(ReportRequest{Records: makeDevices(n, "01", "07")})
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func TestHandleDownloadPDF(t *testing.T) {
	ws, logs := newTestServer(t)

	rec := httptest.NewRecorder()
	ws.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/download-pdf", reportBody(t, 12)))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="inventario-dispositivos-5-3-2024.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.NotEmpty(t, rec.Header().Get("X-Report-Pages"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))

	requests := logs.FilterMessage("HTTP request").All()
	require.Len(t, requests, 1)
	assert.Equal(t, rec.Header().Get("X-Request-ID"), requests[0].ContextMap()["request_id"])
}

func TestHandleReport_ListingScreenFilters(t *testing.T) {
	body := `{
		"records": [{"iot_id": "IOT-1", "name": "Válvula", "device_type": "05", "id_plot": "P-7", "is_active": false}],
		"filters": {"iot_id": "", "name": "", "plotId": "P-7", "startDate": "2024-01-01", "endDate": "2024-02-01", "isActive": "false"}
	}`
	ws, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	ws.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/export-csv", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	r := csv.NewReader(strings.NewReader(strings.TrimPrefix(rec.Body.String(), utf8BOM)))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)
	assert.Contains(t, records, []string{"ID predio:", "P-7"})
	assert.Contains(t, records, []string{"Estado:", "Inactivos"})
	assert.Contains(t, records, []string{"Fecha de registro:", "1/1/2024 - 1/2/2024"})

	rec = httptest.NewRecorder()
	ws.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/download-pdf", strings.NewReader(body)))
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestHandleDownloadPDF_Errors(t *testing.T) {
	tests := []struct {
		name   string
		method string
		body   string
		status int
	}{
		{"wrong method", http.MethodGet, "", http.StatusMethodNotAllowed},
		{"malformed json", http.MethodPost, `{"records": [`, http.StatusBadRequest},
		{"bad date", http.MethodPost, `{"records": [{"iot_id": "A", "registration_date": "ayer"}]}`, http.StatusBadRequest},
		{"bad status filter", http.MethodPost, `{"records": [], "filters": {"isActive": "quizas"}}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws, _ := newTestServer(t)
			rec := httptest.NewRecorder()
			ws.Handler().ServeHTTP(rec, httptest.NewRequest(tt.method, "/api/download-pdf", strings.NewReader(tt.body)))

			assert.Equal(t, tt.status, rec.Code)
			var resp APIErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Error)
			assert.Equal(t, rec.Header().Get("X-Request-ID"), resp.RequestID)
		})
	}
}

func TestHandleDownloadPDF_ClientGoneWhileQueued(t *testing.T) {
	ws, _ := newTestServer(t)
	require.NoError(t, ws.limiter.Acquire(context.Background(), ws.config.Server.MaxConcurrent))
	defer ws.limiter.Release(ws.config.Server.MaxConcurrent)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/download-pdf", reportBody(t, 1)).WithContext(ctx)
	rec := httptest.NewRecorder()
	ws.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleExportCSV(t *testing.T) {
	ws, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	ws.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/export-csv", reportBody(t, 4)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="inventario-dispositivos-5-3-2024.csv"`, rec.Header().Get("Content-Disposition"))

	r := csv.NewReader(strings.NewReader(strings.TrimPrefix(rec.Body.String(), utf8BOM)))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "INVENTARIO DE DISPOSITIVOS DEL DISTRITO", records[0][0])
}

func TestHandleCatalog(t *testing.T) {
	ws, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	ws.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/catalog", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var entries []CategoryEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 14)
	assert.Equal(t, CategoryEntry{Code: "01", Label: "Antena"}, entries[0])
}

func TestHandleHealth(t *testing.T) {
	ws, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	ws.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ws, _ := newTestServer(t)
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ws.Serve(ctx, listener)
	}()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + listener.Addr().String() + "/healthz")
	require.NoError(t, err)
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	client.CloseIdleConnections()
}
