package handler

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// Logging writes one access line per request once next has returned.
func Logging(logger *log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rec := &recorder{ResponseWriter: rw}
		next.ServeHTTP(rec, req)

		logger.Info(req.Method+" "+req.URL.RequestURI(),
			"proto", req.Proto,
			"status", rec.Status(),
			"bytes", rec.bytes,
			"remote", req.RemoteAddr,
			"duration", time.Since(start),
		)
	})
}
