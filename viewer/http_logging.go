// ABOUTME: Request logging and per-route request counting for the viewer server.
// ABOUTME: Logs in the log.Printf key=value style using the matched chi route pattern and session ID.
package viewer

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// logRequests logs every request after it is served and counts it by route
// pattern and status. Unmatched paths are reported as route "unmatched".
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := "unmatched"
		session := "-"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
			if id := rctx.URLParam("id"); id != "" {
				session = id
			}
		}

		s.metrics.ObserveRequest(route, status)
		log.Printf("component=viewer action=request method=%s route=%s session=%s status=%d bytes=%d duration=%s",
			r.Method, route, session, status, ww.BytesWritten(), time.Since(start).Round(time.Microsecond))
	})
}

// statusClass buckets a status code as 2xx, 4xx, and so on.
func statusClass(status int) string {
	return strconv.Itoa(status/100) + "xx"
}
