package utils

import "net/http"

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// ApplyMiddleware wraps h so the first middleware listed is the outermost.
func ApplyMiddleware(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
