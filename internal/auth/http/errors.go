package http

import (
	"net/http"

	"github.com/mgplatform/mgapi/internal/auth/domain"
	"github.com/mgplatform/mgapi/pkg/httpx"
)

// errorWriter renders catalog errors, with the developer message only when
// enabled.
type errorWriter struct {
	devMessages bool
}

func (e errorWriter) write(w http.ResponseWriter, code domain.ErrorCode, dev error) {
	msg := ""
	if e.devMessages && dev != nil {
		msg = dev.Error()
	}
	httpx.WriteErrorResponse(w, code.Response(msg))
}

// statusCapture swallows the body ServeMux writes for unmatched requests so
// it can be replaced by a catalog error.
type statusCapture struct {
	header http.Header
	status int
}

func (c *statusCapture) Header() http.Header         { return c.header }
func (c *statusCapture) Write(b []byte) (int, error) { return len(b), nil }
func (c *statusCapture) WriteHeader(code int) {
	if c.status == 0 {
		c.status = code
	}
}

// withFallbacks serves mux, rendering its 404 and 405 replies as
// NOT_FOUND and METHOD_NOT_SUPPORTED.
func withFallbacks(mux *http.ServeMux, ew errorWriter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, pattern := mux.Handler(r)
		if pattern != "" {
			mux.ServeHTTP(w, r)
			return
		}

		c := &statusCapture{header: http.Header{}}
		h.ServeHTTP(c, r)

		switch c.status {
		case http.StatusMethodNotAllowed:
			if allow := c.header.Get("Allow"); allow != "" {
				w.Header().Set("Allow", allow)
			}
			ew.write(w, domain.MethodNotSupported, nil)
		default:
			ew.write(w, domain.NotFound, nil)
		}
	})
}
