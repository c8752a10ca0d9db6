package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dd0wney/cluso-ringview/pkg/logging"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
}

func TestBodySizeLimit_AllowsSmallRequest(t *testing.T) {
	handler := BodySizeLimit(1024)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("unexpected read error: %v", err)
		}
		w.Write(body)
	}))

	req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(`{"claims":[]}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestBodySizeLimit_RejectsLargeContentLength(t *testing.T) {
	handler := BodySizeLimit(10)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(strings.Repeat("x", 100)))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusRequestEntityTooLarge)
	}
}

func TestBodySizeLimit_LimitsActualBody(t *testing.T) {
	var readErr error
	handler := BodySizeLimit(10)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(strings.Repeat("x", 100)))
	req.ContentLength = -1 // unknown length, as with chunked encoding
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if readErr == nil {
		t.Error("expected read error for oversized body")
	}
}

func TestPanicRecovery(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewJSONLogger(&buf, logging.DebugLevel)

	handler := PanicRecovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("engine exploded")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/sessions/x/frame", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	if strings.Contains(rr.Body.String(), "engine exploded") {
		t.Error("panic value leaked to client")
	}

	var entry logging.LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry.Level != "ERROR" || entry.Fields["panic"] != "engine exploded" {
		t.Errorf("unexpected log entry %+v", entry)
	}
}

func TestPanicRecovery_HandlesNormalRequest(t *testing.T) {
	rr := httptest.NewRecorder()
	PanicRecovery(logging.NewNopLogger())(okHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Errorf("got %d %q", rr.Code, rr.Body.String())
	}
}

func TestRequestID(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"client provided", "abc-123", "abc-123"},
		{"sanitized", "abc<script>123", "abcscript123"},
		{"truncated", strings.Repeat("a", 100), strings.Repeat("a", 64)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = GetRequestID(r)
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(RequestIDHeader, tt.header)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if seen != tt.want {
				t.Errorf("context id = %q, want %q", seen, tt.want)
			}
			if got := rr.Header().Get(RequestIDHeader); got != tt.want {
				t.Errorf("header id = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRequestID_GeneratesNew(t *testing.T) {
	var first, second string
	handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if first == "" {
			first = GetRequestID(r)
		} else {
			second = GetRequestID(r)
		}
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if len(first) != 36 || first == second {
		t.Errorf("expected two distinct UUIDs, got %q and %q", first, second)
	}
}

func TestGetRequestID_NoContext(t *testing.T) {
	if id := GetRequestID(httptest.NewRequest(http.MethodGet, "/", nil)); id != "" {
		t.Errorf("GetRequestID() = %q, want empty", id)
	}
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewJSONLogger(&buf, logging.DebugLevel)

	handler := RequestID()(Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	req := httptest.NewRequest(http.MethodDelete, "/sessions/abc", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var entry logging.LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry.Fields["status"] != float64(http.StatusTeapot) {
		t.Errorf("status field = %v", entry.Fields["status"])
	}
	if entry.Fields["request_id"] != "req-1" || entry.Fields["path"] != "/sessions/abc" {
		t.Errorf("fields = %v", entry.Fields)
	}
}

func TestCORS(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowedOrigins = []string{"https://viewer.example"}

	tests := []struct {
		name       string
		method     string
		origin     string
		wantStatus int
		wantHeader string
	}{
		{"allowed origin", http.MethodGet, "https://viewer.example", http.StatusOK, "https://viewer.example"},
		{"other origin", http.MethodGet, "https://evil.example", http.StatusOK, ""},
		{"preflight allowed", http.MethodOptions, "https://viewer.example", http.StatusNoContent, "https://viewer.example"},
		{"preflight refused", http.MethodOptions, "https://evil.example", http.StatusForbidden, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/sessions", nil)
			req.Header.Set("Origin", tt.origin)
			rr := httptest.NewRecorder()
			CORS(cfg)(okHandler()).ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if got := rr.Header().Get("Access-Control-Allow-Origin"); got != tt.wantHeader {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.wantHeader)
			}
		})
	}
}

func TestCORS_Wildcard(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowedOrigins = []string{"*"}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rr := httptest.NewRecorder()
	CORS(cfg)(okHandler()).ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Allow-Origin = %q", got)
	}
}

func TestCORS_NilConfig(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rr := httptest.NewRecorder()
	CORS(nil)(okHandler()).ServeHTTP(rr, req)

	if rr.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("nil config must not allow any origin")
	}
}

type fakeRecorder struct {
	method, path, status string
	size                 float64
	inFlight, maxFlight  int
}

func (f *fakeRecorder) RecordHTTPRequest(method, path, status string, _ time.Duration) {
	f.method, f.path, f.status = method, path, status
}
func (f *fakeRecorder) RecordResponseSize(_, _ string, size float64) { f.size = size }
func (f *fakeRecorder) IncHTTPRequestsInFlight() {
	f.inFlight++
	if f.inFlight > f.maxFlight {
		f.maxFlight = f.inFlight
	}
}
func (f *fakeRecorder) DecHTTPRequestsInFlight() { f.inFlight-- }

func TestMetrics_UsesRoutePattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /sessions/{id}/frame", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("12345"))
	})

	rec := &fakeRecorder{}
	handler := Metrics(rec)(mux)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/sessions/8f1c/frame", nil))

	if rec.path != "GET /sessions/{id}/frame" {
		t.Errorf("path label = %q", rec.path)
	}
	if rec.status != "200" || rec.size != 5 {
		t.Errorf("status %q size %v", rec.status, rec.size)
	}
	if rec.inFlight != 0 || rec.maxFlight != 1 {
		t.Errorf("in-flight tracking off: now %d, max %d", rec.inFlight, rec.maxFlight)
	}

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	if rec.path != "unmatched" || rec.status != "404" {
		t.Errorf("unmatched request recorded as %q %q", rec.path, rec.status)
	}
}

func TestMetrics_NilRecorder(t *testing.T) {
	rr := httptest.NewRecorder()
	Metrics(nil)(okHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d", rr.Code)
	}
}
