package mw

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/Stefan-Allen/fileconverter/pkg/reqmeta"
)

// AccessLog logs one line per request. It must run inside RequestMetadata to
// pick up the request id.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		reqmeta.Logger(r.Context()).Info("http request",
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(started).String(),
		)
	})
}
