package httpmw

import (
	"net/http"

	"github.com/procomfort/procomfort-quote/internal/log"
	"github.com/procomfort/procomfort-quote/internal/xerrors"
)

// Recover is the terminal error stage: it converts panics from any inner
// stage or handler into a 500 JSON response and keeps the process
// serving. In production mode the client sees only a generic message; in
// other environments the real error and a stack trace are included in
// the body. Either way the error lands in the operational log, and
// onPanic (if set) fires so metrics can count it.
func Recover(l log.Logger, onPanic func(), production bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					// client went away mid-write; let net/http handle it
					panic(rec)
				}

				err, ok := rec.(error)
				if !ok {
					err = xerrors.Newf("%v", rec)
				}
				err = xerrors.EnsureTrace(err)

				if onPanic != nil {
					onPanic()
				}
				l.With(
					"http.request.method", r.Method,
					"url.path", r.URL.Path,
					"request_id", RequestIDFromContext(r.Context()),
				).Error(r.Context(), err, "httpserver panic recovered")

				body := ErrorBody{Error: "Internal Server Error"}
				if !production {
					body.Message = err.Error()
					body.Stack = xerrors.RenderStack(err)
				}
				WriteError(w, http.StatusInternalServerError, body)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
