// Package middleware provides the HTTP middleware used by the ringview API.
//
// Every middleware has the shape func(http.Handler) http.Handler so they
// chain by plain composition:
//
//	handler := middleware.PanicRecovery(logger)(mux)
//	handler = middleware.Metrics(registry)(handler)
//	handler = middleware.Logging(logger)(handler)
//	handler = middleware.RequestID()(handler)
package middleware
