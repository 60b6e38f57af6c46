package handler

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNoCache(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		status  int
	}{
		{
			name: "implicit 200",
			handler: func(rw http.ResponseWriter, req *http.Request) {
				_, _ = rw.Write([]byte("ok"))
			},
			status: http.StatusOK,
		},
		{
			name:    "nothing written",
			handler: func(rw http.ResponseWriter, req *http.Request) {},
			status:  http.StatusOK,
		},
		{
			name: "redirect",
			handler: func(rw http.ResponseWriter, req *http.Request) {
				http.Redirect(rw, req, "/elsewhere", http.StatusFound)
			},
			status: http.StatusFound,
		},
		{
			name: "error",
			handler: func(rw http.ResponseWriter, req *http.Request) {
				http.Error(rw, "boom", http.StatusInternalServerError)
			},
			status: http.StatusInternalServerError,
		},
		{
			name: "handler sets its own caching headers",
			handler: func(rw http.ResponseWriter, req *http.Request) {
				rw.Header().Set("Cache-Control", "public, max-age=3600")
				rw.Header().Add("Pragma", "cache")
				rw.Header().Add("Expires", "Thu, 01 Dec 2044 16:00:00 GMT")
				rw.WriteHeader(http.StatusOK)
			},
			status: http.StatusOK,
		},
		{
			name: "flush",
			handler: func(rw http.ResponseWriter, req *http.Request) {
				rw.(http.Flusher).Flush()
			},
			status: http.StatusOK,
		},
		{
			name: "read from",
			handler: func(rw http.ResponseWriter, req *http.Request) {
				_, _ = io.Copy(rw, strings.NewReader("copied"))
			},
			status: http.StatusOK,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			srv := httptest.NewServer(NoCache(test.handler))
			defer srv.Close()

			resp, _ := do(t, http.MethodGet, srv.URL, nil)
			if resp.StatusCode != test.status {
				t.Errorf("expected %d, got %d", test.status, resp.StatusCode)
			}
			assertNoCache(t, resp.Header)
		})
	}
}

func TestNoCacheResponseController(t *testing.T) {
	h := NoCache(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		if err := http.NewResponseController(rw).Flush(); err != nil {
			t.Errorf("flush through the controller: %v", err)
		}
		_, _ = rw.Write([]byte("streamed"))
	}))
	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, body := do(t, http.MethodGet, srv.URL, nil)
	if !strings.Contains(body, "streamed") {
		t.Errorf("expected the body to be written, got %q", body)
	}
	assertNoCache(t, resp.Header)
}
