package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestLoggerRecordsStatusAndSize(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("missing"))
	}))

	req := httptest.NewRequest("GET", "/api/v1/foods/99", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var entry struct {
		Level  string `json:"level"`
		Method string `json:"method"`
		Path   string `json:"path"`
		Status int    `json:"status"`
		Bytes  int64  `json:"bytes"`
	}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry.Method != "GET" || entry.Path != "/api/v1/foods/99" {
		t.Errorf("logged %s %s, want GET /api/v1/foods/99", entry.Method, entry.Path)
	}
	if entry.Status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", entry.Status)
	}
	if entry.Bytes != int64(len("missing")) {
		t.Errorf("bytes = %d, want %d", entry.Bytes, len("missing"))
	}
	// 4xx responses log at warn.
	if entry.Level != "WARN" {
		t.Errorf("level = %q, want WARN", entry.Level)
	}
}

func TestStatusRecorderUnwrap(t *testing.T) {
	rec := httptest.NewRecorder()
	sr := &statusRecorder{ResponseWriter: rec, status: http.StatusOK}
	if sr.Unwrap() != rec {
		t.Error("Unwrap should return the wrapped writer")
	}
}
