package middleware

import (
	"net"
	"net/http"

	"github.com/rogerio-castellano/safekart/internal/http/ban"
	rl "github.com/rogerio-castellano/safekart/internal/http/rate_limiter"
	"go.uber.org/zap"
)

// RateLimitMiddleware rejects banned clients with 403 and over-limit clients
// with 429. Every 429 counts as a strike toward a ban.
func RateLimitMiddleware(limiter *rl.Limiter, bans *ban.Manager, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)

			if bans != nil && bans.Banned(r.Context(), ip) {
				http.Error(w, "Too many requests. You are temporarily banned.", http.StatusForbidden)
				return
			}

			if limiter.Allow(ip) {
				next.ServeHTTP(w, r)
				return
			}

			if bans != nil {
				route := r.Method + " " + r.URL.Path
				if _, err := bans.Strike(r.Context(), ip, route); err != nil {
					logger.Error("failed to record strike", zap.String("ip", ip), zap.Error(err))
				}
			}
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
		})
	}
}

// ClientIP is the remote address without its port. Proxy headers only count
// when the router installs chi's RealIP, which rewrites RemoteAddr.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
