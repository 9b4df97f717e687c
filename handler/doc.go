// Package handler provides type-safe HTTP request handling.
//
// Handlers are generic functions that receive a bound request struct and
// return a Response. Wrap turns them into http.HandlerFunc values that can be
// mounted on any router:
//
//	type CheckRequest struct {
//		Feature string `path:"feature"`
//	}
//
//	func check(ctx handler.Context, req CheckRequest) handler.Response {
//		allowed := client.CheckUsageLimit(ctx, limits.Feature(req.Feature))
//		return handler.JSON(map[string]bool{"allowed": allowed})
//	}
//
//	r.Post("/usage/{feature}/check", handler.Wrap(check,
//		handler.WithBinders[handler.Context, CheckRequest](binder.Path(chi.URLParam)),
//		handler.WithErrorHandler[handler.Context, CheckRequest](handler.NewErrorHandler(log)),
//	))
//
// # Responses
//
//   - JSON / JSONError: the {data, meta, error} envelope
//   - Empty / EmptyWithStatus: status code only
//   - Blob: raw bytes with a content type (images)
//   - SSE: a text/event-stream driven by an SSEHandler
//
// # Errors
//
// Binding and render errors are passed to the ErrorHandler. HTTPError values
// carry their own status; binder errors map to 400 or 415; anything else is a
// 500 with a generic message. NewErrorHandler logs each error with the request
// ID before rendering it.
package handler
