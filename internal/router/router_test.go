package router

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fatherhoodis/internal/apiclient"
	"github.com/fatherhoodis/internal/auth"
	"github.com/fatherhoodis/internal/handler"
	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(backend.Close)

	api := handler.NewAPI(apiclient.NewClient(backend.URL), auth.SessionProvider{}, handler.Options{})
	return SetupRouter("test-secret", api)
}

func TestSetupRouterServesEmbeddedStatic(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/static/js/app.js", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "app:alert") {
		t.Fatalf("unexpected body, got %q", rr.Body.String())
	}
}

func TestWrapCompressesResponses(t *testing.T) {
	r := newTestRouter(t)
	server := httptest.NewServer(Wrap(r))
	defer server.Close()

	req, err := http.NewRequest(http.MethodGet, server.URL+"/about", nil)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Accept-Encoding", "gzip")

	// a custom transport keeps the body compressed
	resp, err := (&http.Transport{DisableCompression: true}).RoundTrip(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.Header.Get("Content-Encoding") != "gzip" {
		t.Fatalf("expected gzip encoding, got %q", resp.Header.Get("Content-Encoding"))
	}
	reader, err := gzip.NewReader(resp.Body)
	if err != nil {
		t.Fatalf("invalid gzip body: %v", err)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	if !strings.Contains(string(body), "About Fatherhood Is...") {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestWrapHonoursForwardedProto(t *testing.T) {
	var scheme string
	h := Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scheme = r.URL.Scheme
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if scheme != "https" {
		t.Fatalf("expected forwarded scheme https, got %q", scheme)
	}
}

func TestPing(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "pong") {
		t.Fatalf("unexpected ping response %d %q", rr.Code, rr.Body.String())
	}
}
