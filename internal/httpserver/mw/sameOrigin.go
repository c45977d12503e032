package mw

import (
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/MrSnakeDoc/topdoor/internal/logger"
)

// RejectForeignOrigin refuses browser requests sent by pages that are not
// served from this machine. Requests without an Origin header (CLI, curl,
// same-origin GETs) pass. An Origin passes when its host is loopback or
// matches one of allowedHosts; the opaque "null" origin never does.
func RejectForeignOrigin(allowedHosts []string, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" || localOrigin(origin, allowedHosts) {
				next.ServeHTTP(w, r)
				return
			}

			log.Warn("cross-origin request rejected",
				logger.String("origin", origin),
				logger.String("method", r.Method),
				logger.String("path", r.URL.Path))
			reject(w, http.StatusForbidden, "origin not allowed")
		})
	}
}

func localOrigin(origin string, allowedHosts []string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	host := strings.ToLower(u.Hostname())
	if host == "localhost" {
		return true
	}
	if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
		return true
	}
	for _, pattern := range allowedHosts {
		if matchHost(u.Host, pattern) {
			return true
		}
	}
	return false
}
