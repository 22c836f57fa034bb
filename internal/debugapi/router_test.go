package debugapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/respkv/respkv/internal/kvindex"
)

func TestRouterPing(t *testing.T) {
	idx := kvindex.New(nil)
	r := Router(zap.NewNop(), idx, fixedConns{})

	req := httptest.NewRequest(http.MethodGet, "/debug/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatal(w.Code)
	}
	if w.Body.String() != `{"message":"pong"}` {
		t.Fatal(w.Body.String())
	}
}

func TestRouterStats(t *testing.T) {
	idx := kvindex.New(nil)
	idx.ExecuteBytes([]byte("*3\r\n$3\r\nSET\r\n$1\r\na\r\n$1\r\nv\r\n"))
	r := Router(zap.NewNop(), idx, fixedConns{active: 1, size: 4})

	req := httptest.NewRequest(http.MethodGet, "/debug/stats", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatal(w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected a request id header")
	}
}
