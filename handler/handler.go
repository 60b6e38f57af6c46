// Package handler implements the HTTP side of the file server: static
// file resolution, the no-cache response headers, access logging and
// request metrics, each one a plain http.Handler wrapper.
package handler

import (
	"io"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/pelageech/folioserv/metrics"
)

// New builds the handler chain serving root. m may be nil.
//
// The access log is outermost and sees what the client gets, the metrics
// sit inside the header hook.
func New(root http.FileSystem, logger *log.Logger, m *metrics.Metrics) http.Handler {
	return Logging(logger, NoCache(Instrument(m, NewFiles(root, logger))))
}

// Instrument updates m for every request served by next.
func Instrument(m *metrics.Metrics, next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		m.Started()
		rec := &recorder{ResponseWriter: rw}
		defer func() {
			m.Finished(req.Method, rec.Status(), rec.bytes)
		}()
		next.ServeHTTP(rec, req)
	})
}

// recorder remembers the final status code and the body size written
// through it.
type recorder struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (r *recorder) WriteHeader(code int) {
	if r.status == 0 && code >= http.StatusOK {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += int64(n)
	return n, err
}

func (r *recorder) ReadFrom(src io.Reader) (int64, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	var n int64
	var err error
	if rf, ok := r.ResponseWriter.(io.ReaderFrom); ok {
		n, err = rf.ReadFrom(src)
	} else {
		n, err = io.Copy(r.ResponseWriter, src)
	}
	r.bytes += n
	return n, err
}

func (r *recorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *recorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Status is the status code sent, 200 if the handler wrote nothing.
func (r *recorder) Status() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}
