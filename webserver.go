package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// maxRequestBytes bounds the JSON body of a report request
const maxRequestBytes = 32 << 20

// WebServer holds the HTTP server configuration
type WebServer struct {
	config    *Config
	addr      string
	generator *ReportGenerator
	logger    *zap.Logger
	limiter   *semaphore.Weighted
	now       func() time.Time
}

// NewWebServer creates a new web server instance
func NewWebServer(config *Config, generator *ReportGenerator, logger *zap.Logger) *WebServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebServer{
		config:    config,
		addr:      config.Server.Addr,
		generator: generator,
		logger:    logger,
		limiter:   semaphore.NewWeighted(config.Server.MaxConcurrent),
		now:       time.Now,
	}
}

// ReportRequest is the body of the download and export endpoints
type ReportRequest struct {
	Records []Device       `json:"records"`
	Filters FilterCriteria `json:"filters"`
}

// APIErrorResponse is returned by every failing endpoint
type APIErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// Handler returns the routed API wrapped with request logging.
func (ws *WebServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/download-pdf", ws.handleDownloadPDF)
	mux.HandleFunc("/api/export-csv", ws.handleExportCSV)
	mux.HandleFunc("/api/catalog", ws.handleCatalog)
	mux.HandleFunc("/healthz", ws.handleHealth)
	return ws.withRequestLog(mux)
}

// Start listens on the configured address and serves until ctx is done.
func (ws *WebServer) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", ws.addr)
	if err != nil {
		return err
	}
	return ws.Serve(ctx, listener)
}

// Serve serves on listener until ctx is done, then shuts down gracefully.
func (ws *WebServer) Serve(ctx context.Context, listener net.Listener) error {
	server := &http.Server{
		Handler:           ws.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	ws.logger.Info("Starting web server", zap.String("addr", listener.Addr().String()))

	errc := make(chan error, 1)
	go func() {
		errc <- server.Serve(listener)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		<-errc
		ws.logger.Info("Web server stopped")
		return nil
	}
}

type requestIDKey struct{}

// requestID returns the id assigned to r by withRequestLog.
func requestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey{}).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// withRequestLog tags each request with a uuid and logs its outcome.
func (ws *WebServer) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))

		ws.logger.Info("HTTP request",
			zap.String("request_id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)))
	})
}

// decodeReportRequest reads a ReportRequest, answering 405/400 itself on failure.
func (ws *WebServer) decodeReportRequest(w http.ResponseWriter, r *http.Request) (*ReportRequest, bool) {
	if r.Method != http.MethodPost {
		sendJSONError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
		return nil, false
	}

	var req ReportRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		sendJSONError(w, r, http.StatusBadRequest, "Invalid request: "+err.Error())
		return nil, false
	}
	return &req, true
}

// acquire waits for a generation slot. It fails when the client goes away first.
func (ws *WebServer) acquire(w http.ResponseWriter, r *http.Request) bool {
	if err := ws.limiter.Acquire(r.Context(), 1); err != nil {
		sendJSONError(w, r, http.StatusServiceUnavailable, "Server busy, try again")
		return false
	}
	return true
}

// handleDownloadPDF returns PDF content directly for browser download
func (ws *WebServer) handleDownloadPDF(w http.ResponseWriter, r *http.Request) {
	req, ok := ws.decodeReportRequest(w, r)
	if !ok {
		return
	}
	if !ws.acquire(w, r) {
		return
	}
	defer ws.limiter.Release(1)

	report, err := ws.generator.Generate(req.Records, req.Filters, ws.now())
	if err != nil {
		ws.logger.Error("PDF generation failed", zap.String("request_id", requestID(r)), zap.Error(err))
		sendJSONError(w, r, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	// Set headers for PDF download
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", report.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(report.PDF)))
	w.Header().Set("X-Report-Pages", strconv.Itoa(report.Pages))
	w.Write(report.PDF)
}

// handleExportCSV returns the spreadsheet export of the same request body
func (ws *WebServer) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	req, ok := ws.decodeReportRequest(w, r)
	if !ok {
		return
	}

	now := ws.now()
	var buf bytes.Buffer
	if err := ws.generator.ExportCSV(&buf, req.Records, req.Filters, now); err != nil {
		ws.logger.Error("CSV export failed", zap.String("request_id", requestID(r)), zap.Error(err))
		sendJSONError(w, r, http.StatusInternalServerError, "Failed to export CSV")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", ExportFileName(now)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}

// handleCatalog lists the device categories in display order
func (ws *WebServer) handleCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sendJSONError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ws.generator.Catalog().Entries())
}

func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func sendJSONError(w http.ResponseWriter, r *http.Request, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(APIErrorResponse{
		Success:   false,
		Error:     message,
		RequestID: requestID(r),
	})
}
