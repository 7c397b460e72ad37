// Package middleware provides HTTP middlewares for CORS handling and
// request logging.
package middleware

import (
	"net/http"
	"net/url"
)

// AllowedMethods is the verb list advertised on every response.
const AllowedMethods = "GET,POST,PUT,DELETE,OPTIONS"

// CORS enforces the cross-origin contract at the boundary.
//
// OPTIONS requests are answered here: a request carrying the full preflight
// triad (a valid Origin plus Access-Control-Request-Method and
// Access-Control-Request-Headers) receives the preflight response echoing
// the requested headers; anything else is treated as a plain OPTIONS and
// answered with a bare Allow header.
//
// Every other response is stamped with Access-Control-Allow-Origin (the
// validated origin, or "*" when there is none), the full method list and
// Allow-Credentials before the handler runs, so the guarantee holds for
// 404s and error responses too.
//
// allowedOrigins is the configured origin allow-list; the literal "*"
// entry disables list matching and admits any http/https origin.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allowAny := false
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAny = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := validatedOrigin(r, allowAny, allowed)

			if r.Method == http.MethodOptions {
				handleOptions(w, r, origin)
				return
			}

			h := w.Header()
			if origin != "" {
				h.Set("Access-Control-Allow-Origin", origin)
			} else {
				h.Set("Access-Control-Allow-Origin", "*")
			}
			h.Set("Access-Control-Allow-Methods", AllowedMethods)
			h.Set("Access-Control-Allow-Credentials", "true")

			next.ServeHTTP(w, r)
		})
	}
}

// handleOptions answers an OPTIONS request: full preflight when the triad
// is present, a minimal Allow header otherwise.
func handleOptions(w http.ResponseWriter, r *http.Request, origin string) {
	reqMethod := r.Header.Get("Access-Control-Request-Method")
	reqHeaders := r.Header.Get("Access-Control-Request-Headers")

	if origin == "" || reqMethod == "" || reqHeaders == "" {
		// Not a CORS preflight.
		w.Header().Set("Allow", AllowedMethods)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h := w.Header()
	h.Set("Allow", AllowedMethods)
	h.Set("Access-Control-Allow-Origin", origin)
	h.Set("Access-Control-Allow-Methods", AllowedMethods)
	h.Set("Access-Control-Allow-Headers", reqHeaders)
	h.Set("Access-Control-Allow-Credentials", "true")
	w.WriteHeader(http.StatusNoContent)
}

// validatedOrigin returns the request's Origin header if it passes
// validation, or "" otherwise. An origin is valid when it parses as an
// http or https URL and, unless the list admits any origin, appears in
// the allow-list. Malformed values are reported as absent, never as errors.
func validatedOrigin(r *http.Request, allowAny bool, allowed map[string]struct{}) string {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return ""
	}
	u, err := url.Parse(origin)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return ""
	}
	if allowAny {
		return origin
	}
	if _, ok := allowed[origin]; ok {
		return origin
	}
	return ""
}
