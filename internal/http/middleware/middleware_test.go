package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rogerio-castellano/safekart/internal/auth"
	"github.com/rogerio-castellano/safekart/internal/http/ban"
	rl "github.com/rogerio-castellano/safekart/internal/http/rate_limiter"
	"go.uber.org/zap"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(GetSubject(r)))
})

func TestAuthMiddleware(t *testing.T) {
	issuer := auth.NewIssuer("secret", time.Minute)
	admin, _ := issuer.GenerateToken("admin", auth.RoleAdmin)
	viewer, _ := issuer.GenerateToken("someone", "viewer")
	h := AuthMiddleware(issuer)(ok)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"admin", "Bearer " + admin, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"garbage", "Bearer nope", http.StatusUnauthorized},
		{"wrong role", "Bearer " + viewer, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+admin)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Body.String() != "admin" {
		t.Errorf("expected subject in context, got %q", w.Body.String())
	}
}

func TestAuthMiddleware_Unconfigured(t *testing.T) {
	w := httptest.NewRecorder()
	AuthMiddleware(nil)(ok).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := rl.New(0.001, 1)
	bans := ban.NewManager(ban.NewMemoryStore(), 2, time.Minute, nil)
	h := RateLimitMiddleware(limiter, bans, zap.NewNop())(ok)

	do := func() int {
		req := httptest.NewRequest(http.MethodPost, "/verify", nil)
		req.RemoteAddr = "192.0.2.7:5555"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}

	want := []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests, http.StatusForbidden}
	for i, code := range want {
		if got := do(); got != code {
			t.Errorf("request %d: expected %d, got %d", i+1, code, got)
		}
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:1234"
	if got := ClientIP(req); got != "203.0.113.9" {
		t.Errorf("unexpected ip %q", got)
	}
	req.RemoteAddr = "203.0.113.9"
	if got := ClientIP(req); got != "203.0.113.9" {
		t.Errorf("unexpected ip %q", got)
	}
}

func TestAuthMiddleware_QueryToken(t *testing.T) {
	issuer := auth.NewIssuer("secret", time.Minute)
	admin, _ := issuer.GenerateToken("admin", auth.RoleAdmin)

	w := httptest.NewRecorder()
	AuthMiddleware(issuer)(ok).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/logs/stream?access_token="+admin, nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}
