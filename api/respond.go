package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Goofygiraffe06/authscreen/internal/logging"
	g "maragu.dev/gomponents"
)

func respondJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.ErrorLog("JSON encoding failed: %v", err)
	}
}

func respondHTML(w http.ResponseWriter, code int, node g.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	if err := node.Render(w); err != nil {
		logging.ErrorLog("HTML rendering failed: %v", err)
	}
}

// wantsJSON is true for script clients; browsers posting forms get redirects.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
