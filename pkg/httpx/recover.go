package httpx

import (
	"net/http"
	"runtime/debug"

	"github.com/mgplatform/mgapi/pkg/slogx"
)

// PanicReporter is told about every panic Recover swallows.
type PanicReporter func(r *http.Request, v any, stack []byte)

// Recover turns a handler panic into a 500 error response. The server keeps
// serving afterwards. report may be nil.
func Recover(report PanicReporter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}

				stack := debug.Stack()
				slogx.FromContext(r.Context()).Error("panic recovered",
					"panic", v,
					"stack", string(stack),
				)
				if report != nil {
					report(r, v, stack)
				}

				WriteError(w, http.StatusInternalServerError, CodeInternalError, "Internal server error.")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
