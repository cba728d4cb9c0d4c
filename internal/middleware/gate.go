package middleware

import (
	"net/http"
	"strings"

	"github.com/authgate/authgate-go/internal/session"
)

type pathClass int

const (
	pathNeutral pathClass = iota
	pathAuth
	pathProtected
)

var (
	authPrefixes      = []string{"/login", "/signup", "/reset-password"}
	protectedPrefixes = []string{"/dashboard"}
)

// AccessGate classifies every request path and redirects based on
// session validity: protected pages require a session, auth pages
// bounce an already-signed-in user to the dashboard, and everything
// else — the API surface included — passes through untouched. The
// decision is a pure function of (path, session validity); nothing is
// kept between requests.
func AccessGate(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			class := classify(r.URL.Path)
			if class == pathNeutral {
				next.ServeHTTP(w, r)
				return
			}

			_, err := sessions.Verify(r.Context(), r)
			present := err == nil

			switch {
			case class == pathProtected && !present:
				http.Redirect(w, r, "/login", http.StatusFound)
			case class == pathAuth && present:
				http.Redirect(w, r, "/dashboard", http.StatusFound)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func classify(path string) pathClass {
	for _, p := range protectedPrefixes {
		if matchesPrefix(path, p) {
			return pathProtected
		}
	}
	for _, p := range authPrefixes {
		if matchesPrefix(path, p) {
			return pathAuth
		}
	}
	return pathNeutral
}

// matchesPrefix matches a page and its sub-paths, but not unrelated
// paths that merely share leading characters ("/loginfoo").
func matchesPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
