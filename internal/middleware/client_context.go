package middleware

import (
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/VaneSolis/Sitio-AFAD/internal/platform/reqctx"
)

// ClientContext guarda reqctx.ClientInfo en el contexto. Debe ir después de
// chimw.RealIP y chimw.RequestID para ver la IP real y el id ya asignado.
func ClientContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := reqctx.ClientInfo{
			IP:        clientIP(r.RemoteAddr),
			UserAgent: strings.TrimSpace(r.UserAgent()),
			RequestID: chimw.GetReqID(r.Context()),
		}
		next.ServeHTTP(w, r.WithContext(reqctx.WithClient(r.Context(), info)))
	})
}

// clientIP quita el puerto de RemoteAddr ("1.2.3.4:5678", "[::1]:80").
// chimw.RealIP deja sólo la IP, sin puerto.
func clientIP(remoteAddr string) string {
	addr := strings.TrimSpace(remoteAddr)
	if strings.HasPrefix(addr, "[") {
		if i := strings.Index(addr, "]"); i > 0 {
			return addr[1:i]
		}
	}
	if strings.Count(addr, ":") == 1 {
		return addr[:strings.Index(addr, ":")]
	}
	return addr
}
