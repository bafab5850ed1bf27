package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/VaneSolis/Sitio-AFAD/internal/platform/httpresp"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/logger"
)

// Recover convierte un panic en un 500 con el sobre JSON de la API.
// Reemplaza a chimw.Recoverer, que responde texto plano.
func Recover(log logger.Logger, exposeErrors bool) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				// http.ErrAbortHandler se re-lanza: net/http lo usa para cortar la respuesta.
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				log.Error("panic recovered", map[string]any{
					"panic":      fmt.Sprint(rec),
					"method":     r.Method,
					"path":       r.URL.Path,
					"request_id": chimw.GetReqID(r.Context()),
					"stack":      string(debug.Stack()),
				})

				env := httpresp.Envelope{Success: false, Message: "Error interno del servidor"}
				if exposeErrors {
					env.Error = fmt.Sprint(rec)
				}
				httpresp.JSON(w, http.StatusInternalServerError, env)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
