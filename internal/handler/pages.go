package handler

import (
	"fmt"
	"net/http"
)

// Page returns a handler serving a minimal placeholder page. The real
// frontend lives elsewhere; these routes exist so the access gate has
// concrete auth and protected pages to guard.
func Page(title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, "<!doctype html><html><head><title>%s</title></head><body><h1>%s</h1></body></html>\n", title, title)
	}
}
