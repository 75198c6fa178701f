package render

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewServer builds the HTTP preview handler around an SVG snapshot
// renderer. It is a read-only output surface: progress input stays on the
// named pipe, the server just lets a browser watch the board.
//
// Routes:
//
//	GET /           redirects to /board.svg
//	GET /board.svg  the current board as SVG
//	GET /healthz    liveness probe
func NewServer(svg *SVG) http.Handler {
	r := chi.NewRouter()

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/board.svg", http.StatusFound)
	})

	r.Get("/board.svg", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Cache-Control", "no-store")
		w.Write(svg.Render())
	})

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}
