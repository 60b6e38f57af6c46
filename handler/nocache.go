package handler

import (
	"io"
	"net/http"
)

// The header values are sent verbatim, clients compare them literally.
const (
	CacheControl = "no-cache, no-store, must-revalidate"
	Pragma       = "no-cache"
	Expires      = "0"
)

// SetNoCache overwrites the caching headers of h.
func SetNoCache(h http.Header) {
	h.Set("Cache-Control", CacheControl)
	h.Set("Pragma", Pragma)
	h.Set("Expires", Expires)
}

// NoCache adds the no-cache headers to every response of next, whatever
// the status. The headers are set when the status line is written, so an
// inner handler that resets Cache-Control on its error path (as
// http.ServeContent does) can't drop them.
func NoCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		w := &noCacheWriter{ResponseWriter: rw}
		next.ServeHTTP(w, req)
		// net/http would send the implicit 200 behind our back.
		if !w.wroteHeader {
			w.WriteHeader(http.StatusOK)
		}
	})
}

type noCacheWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (w *noCacheWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		SetNoCache(w.ResponseWriter.Header())
		// 1xx responses are followed by another header block.
		w.wroteHeader = code >= http.StatusOK
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *noCacheWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func (w *noCacheWriter) ReadFrom(r io.Reader) (int64, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if rf, ok := w.ResponseWriter.(io.ReaderFrom); ok {
		return rf.ReadFrom(r)
	}
	return io.Copy(w.ResponseWriter, r)
}

func (w *noCacheWriter) Flush() {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap is used by http.ResponseController.
func (w *noCacheWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
