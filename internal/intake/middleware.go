package intake

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stmarys-jajpur/admitform/internal/logging"
)

// requestLogger logs every request through the package logger
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		logging.LogHTTPRequest(r.RemoteAddr, r.Method, r.URL.Path, status, time.Since(start))
	})
}
