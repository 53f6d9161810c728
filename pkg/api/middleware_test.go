package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/ssargent/assetview/pkg/logging"
	"github.com/ssargent/assetview/pkg/query"
	"github.com/ssargent/assetview/pkg/session"
)

func TestSessionMiddleware(t *testing.T) {
	store, err := session.OpenStore(session.StoreConfig{InMemory: true})
	if err != nil {
		t.Fatalf("Failed to open session store: %v", err)
	}
	defer store.Close()

	manager := session.NewManager(store, session.Credentials{Email: testEmail, Password: testPassword}, time.Hour, query.DefaultParams())
	sess, err := manager.Login(testEmail, testPassword)
	if err != nil {
		t.Fatalf("Failed to log in: %v", err)
	}

	tests := []struct {
		name           string
		header         string
		cookie         string
		expectedStatus int
	}{
		{
			name:           "valid header token",
			header:         sess.ID,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "valid cookie",
			cookie:         sess.ID,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "header wins over cookie",
			header:         sess.ID,
			cookie:         "stale",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing token",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "malformed token",
			header:         "not-a-session",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unknown token",
			header:         "2NsGvJ3ioW2XbVZpk8sGnSHvqkB",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *session.Session
			// Create a test handler that just returns 200
			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = sessionFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			handler := sessionMiddleware(manager, NewMetrics())(testHandler)

			req := httptest.NewRequest("GET", "/test", nil)
			if tt.header != "" {
				req.Header.Set(SessionHeader, tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.cookie})
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedStatus == http.StatusOK && (seen == nil || seen.ID != sess.ID) {
				t.Errorf("Expected session %s in context, got %+v", sess.ID, seen)
			}
		})
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New("info", "json", &buf)
	if err != nil {
		t.Fatalf("Failed to build logger: %v", err)
	}

	handler := middleware.RequestID(requestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})))

	req := httptest.NewRequest("GET", "/api/v1/assets?q=aapl", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to decode log entry %q: %v", buf.String(), err)
	}
	if entry["msg"] != "request" || entry["method"] != "GET" || entry["path"] != "/api/v1/assets" {
		t.Errorf("Unexpected log entry: %v", entry)
	}
	if entry["status"] != float64(http.StatusTeapot) {
		t.Errorf("Expected status 418, got %v", entry["status"])
	}
	if entry["bytes"] != float64(len("short and stout")) {
		t.Errorf("Expected bytes to be logged, got %v", entry["bytes"])
	}
	if id, _ := entry["request_id"].(string); id == "" {
		t.Error("Expected a request id")
	}
}

func TestSendError(t *testing.T) {
	w := httptest.NewRecorder()
	sendError(w, "Invalid session", http.StatusUnauthorized)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Expected JSON content type, got %s", ct)
	}

	var response APIResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Success || response.Error != "Invalid session" {
		t.Errorf("Unexpected response: %+v", response)
	}
}
