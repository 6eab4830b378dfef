package server

import (
	"crypto/subtle"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"github.com/dropa-gg/dropa/internal/logger"
)

// AuthMiddleware validates the gateway API key
func AuthMiddleware(apiKey string, proxies *TrustedProxies, detector *FailedAuthDetector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			providedKey := r.Header.Get(HeaderAPIKey)
			if subtle.ConstantTimeCompare([]byte(providedKey), []byte(apiKey)) != 1 {
				ip := proxies.ClientIP(r)
				detector.RecordFailedAuth(ip)

				logger.FromContext(r.Context()).Warn(LogMsgAuthFailed,
					"remote_addr", r.RemoteAddr,
					"path", r.URL.Path,
					"has_key", providedKey != "",
					"ip", ip)

				http.Error(w, ErrMsgUnauthorized, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isPublicPath(path string) bool {
	for _, p := range PublicPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// RequestSizeLimitMiddleware limits request body size
func RequestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// FailedAuthDetector counts failed API key checks per client IP and raises
// an alert log once an IP crosses the threshold within the window.
type FailedAuthDetector struct {
	mu        sync.Mutex
	byIP      map[string]int
	windowEnd time.Time
	now       func() time.Time
}

func NewFailedAuthDetector() *FailedAuthDetector {
	return &FailedAuthDetector{byIP: make(map[string]int), now: time.Now}
}

// RecordFailedAuth records a failed attempt and returns the count in the current window.
func (d *FailedAuthDetector) RecordFailedAuth(ip string) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if now.After(d.windowEnd) {
		d.byIP = make(map[string]int)
		d.windowEnd = now.Add(FailedAuthWindow)
	}
	d.byIP[ip]++

	count := d.byIP[ip]
	if count >= FailedAuthAlertThreshold {
		slog.Warn(SecurityAlertFailedAuth, "ip", ip, "count", count)
	}
	return count
}

// TrustedProxies decides when X-Forwarded-For may be believed.
type TrustedProxies struct {
	prefixes []netip.Prefix
}

// NewTrustedProxies accepts plain IPs and CIDR ranges. Malformed entries are skipped.
func NewTrustedProxies(entries []string) *TrustedProxies {
	tp := &TrustedProxies{}
	for _, e := range entries {
		if strings.Contains(e, "/") {
			if p, err := netip.ParsePrefix(e); err == nil {
				tp.prefixes = append(tp.prefixes, p.Masked())
			}
			continue
		}
		if a, err := netip.ParseAddr(e); err == nil {
			tp.prefixes = append(tp.prefixes, netip.PrefixFrom(a, a.BitLen()))
		}
	}
	return tp
}

func (tp *TrustedProxies) trusts(ip string) bool {
	a, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	for _, p := range tp.prefixes {
		if p.Contains(a.Unmap()) {
			return true
		}
	}
	return false
}

// ClientIP gets the client IP address from the request. X-Forwarded-For is
// only read when the direct peer is a trusted proxy, and then only its
// rightmost hop.
func (tp *TrustedProxies) ClientIP(r *http.Request) string {
	remoteIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remoteIP = r.RemoteAddr
	}

	if tp != nil && tp.trusts(remoteIP) {
		if forwarded := r.Header.Get(HeaderForwardedFor); forwarded != "" {
			ips := strings.Split(forwarded, ",")
			return strings.TrimSpace(ips[len(ips)-1])
		}
	}
	return remoteIP
}

// SecurityHeadersMiddleware adds security headers to responses
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(HeaderContentType, HeaderValueNoSniff)
			w.Header().Set(HeaderFrameOptions, HeaderValueSameOrigin)
			w.Header().Set(HeaderXSSProtection, HeaderValueXSSBlock)
			w.Header().Set(HeaderReferrerPolicy, HeaderValueReferrerStrictOrigin)

			next.ServeHTTP(w, r)
		})
	}
}
