// Package reqctx transporta en el contexto el origen de un request (IP,
// user agent, request id) para las capas que no conocen HTTP.
package reqctx

import "context"

type ctxKey struct{}

// ClientInfo identifica el origen de un request. Lo consume el log de actividad.
type ClientInfo struct {
	IP        string
	UserAgent string
	RequestID string
}

// WithClient devuelve un ctx con info.
func WithClient(ctx context.Context, info ClientInfo) context.Context {
	return context.WithValue(ctx, ctxKey{}, info)
}

// Client lee el ClientInfo guardado por WithClient.
func Client(ctx context.Context) (ClientInfo, bool) {
	c, ok := ctx.Value(ctxKey{}).(ClientInfo)
	return c, ok
}
