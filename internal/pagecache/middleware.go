package pagecache

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Middleware serves GET requests from c and stores successful responses.
// Cache errors are logged and the request falls through to next.
func Middleware(c Cache, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			key := r.URL.RequestURI()
			e, ok, err := c.Get(r.Context(), key)
			if err != nil {
				logger.Warnw("page cache read failed", "key", key, "err", err)
			}
			if ok {
				w.Header().Set("Content-Type", e.ContentType)
				w.Header().Set("X-Cache", "HIT")
				w.WriteHeader(e.Status)
				_, _ = w.Write(e.Body)
				return
			}

			var buf bytes.Buffer
			w.Header().Set("X-Cache", "MISS")
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&buf)
			next.ServeHTTP(ww, r)

			if ww.Status() != http.StatusOK {
				return
			}
			entry := &Entry{Status: http.StatusOK, ContentType: ww.Header().Get("Content-Type"), Body: buf.Bytes()}
			if err := c.Set(r.Context(), key, entry); err != nil {
				logger.Warnw("page cache write failed", "key", key, "err", err)
			}
		})
	}
}
