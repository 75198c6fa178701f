package render

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tilemeter/tilemeter/pkg/tiling"
)

func TestServerRoutes(t *testing.T) {
	svg, err := NewSVG(testDataset(), tiling.NewResolver(tiling.Defaults{}, tiling.Defaults{}))
	if err != nil {
		t.Fatalf("NewSVG error: %v", err)
	}
	srv := httptest.NewServer(NewServer(svg))
	defer srv.Close()

	t.Run("healthz", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/healthz")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
	})

	t.Run("board", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/board.svg")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
			t.Errorf("content type = %q, want image/svg+xml", ct)
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(body), "<svg") {
			t.Error("body does not look like SVG")
		}
	})

	t.Run("root redirects", func(t *testing.T) {
		// Default client follows the redirect to the board.
		resp, err := http.Get(srv.URL + "/")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
			t.Errorf("content type after redirect = %q, want image/svg+xml", ct)
		}
	})
}
