package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, args ...any)              {}
func (m *mockLogger) Info(ctx context.Context, msg string, args ...any)               {}
func (m *mockLogger) Warn(ctx context.Context, msg string, args ...any)               {}
func (m *mockLogger) Error(ctx context.Context, msg string, args ...any)              {}
func (m *mockLogger) Debugc(ctx context.Context, caller int, msg string, args ...any) {}
func (m *mockLogger) Infoc(ctx context.Context, caller int, msg string, args ...any)  {}
func (m *mockLogger) Warnc(ctx context.Context, caller int, msg string, args ...any)  {}
func (m *mockLogger) Errorc(ctx context.Context, caller int, msg string, args ...any) {}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		storeErr   error
		wantStatus int
		wantBody   string
		wantReady  int
	}{
		{"all healthy", nil, http.StatusOK, "ok", http.StatusOK},
		{"store down", errors.New("connection refused"), http.StatusServiceUnavailable, "degraded", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(0, "test", &mockLogger{})
			s.RegisterCheck("catalog", Ping(func(context.Context) error { return tt.storeErr }))
			s.RegisterCheck("poller", func(context.Context) (bool, string) { return true, "enabled" })
			h := s.Handler()

			rec := get(h, "/health")
			if rec.Code != tt.wantStatus {
				t.Errorf("/health status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var status Status
			if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if status.Status != tt.wantBody || status.Version != "test" || len(status.Checks) != 2 {
				t.Errorf("status = %+v", status)
			}
			if tt.storeErr != nil && status.Checks["catalog"].Message != tt.storeErr.Error() {
				t.Errorf("catalog check = %+v", status.Checks["catalog"])
			}

			if rec := get(h, "/ready"); rec.Code != tt.wantReady {
				t.Errorf("/ready status = %d, want %d", rec.Code, tt.wantReady)
			}
			if rec := get(h, "/live"); rec.Code != http.StatusOK {
				t.Errorf("/live status = %d", rec.Code)
			}
		})
	}
}
