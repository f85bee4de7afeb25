// internal/middleware/security.go
//
// Security-header middleware.
//
// Injects hardening headers on every response of the JSON API:
//
//   - Strict-Transport-Security  forces HTTPS (2 years)
//   - Content-Security-Policy    nothing may be loaded from a response
//   - X-Frame-Options            click-jacking defence
//   - X-Content-Type-Options     MIME-sniffing defence
//   - Referrer-Policy            no Referer at all
//   - Cache-Control              findings describe a draft and must not be cached
//
// Notes
// -----
//   - Headers are set *before* next.ServeHTTP; once a handler writes the
//     status line the header map is frozen.  Handlers may still override a
//     value before they write.
//   - Two spaces after periods.
package middleware

import "net/http"

// Security sets security headers for every response.
func Security(next http.Handler) http.Handler {
	const (
		hsts  = "max-age=63072000; includeSubDomains"
		csp   = "default-src 'none'; frame-ancestors 'none'"
		xfo   = "DENY"
		nosn  = "nosniff"
		refer = "no-referrer"
		cache = "no-store"
	)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Strict-Transport-Security", hsts)
		h.Set("Content-Security-Policy", csp)
		h.Set("X-Frame-Options", xfo)
		h.Set("X-Content-Type-Options", nosn)
		h.Set("Referrer-Policy", refer)
		h.Set("Cache-Control", cache)
		next.ServeHTTP(w, r)
	})
}
