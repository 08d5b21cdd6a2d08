package mw

import (
	"net"
	"net/http"

	"github.com/nikbrunner/popmark/internal/logger"
)

// LocalOnly rejects requests that do not come from a loopback address.
// The API has no authentication, so it must not be reachable remotely.
func LocalOnly(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}
			ip := net.ParseIP(host)
			if ip == nil || !ip.IsLoopback() {
				log.Debugf("LocalOnly: %s REJECTED", r.RemoteAddr)
				w.WriteHeader(http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
