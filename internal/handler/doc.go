// Package handler provides HTTP request handlers for the Folio API.
//
// Each handler struct wraps one service and translates between HTTP and the
// service layer: it decodes the request, passes the caller's identity from
// the request context, and writes either a data envelope or an RFC 9457
// Problem Details error.
//
// # Collections
//
// Pages, posts, products, categories and content entries share one generic
// ResourceHandler. Its RegisterRoutes mounts
//
//	GET    /v1/{resource}
//	GET    /v1/{resource}/{id}
//	GET    /v1/{resource}/slug/{slug}
//	POST   /v1/{resource}
//	PATCH  /v1/{resource}/{id}
//	DELETE /v1/{resource}/{id}
//
// Writes sit behind middleware.RequireIdentity so anonymous callers get 401;
// whether a signed-in caller may write is decided by the service (403).
//
// # Response Format
//
//   - WriteData: {"data": ...} envelope
//   - WriteCachedData: same envelope with an ETag; If-None-Match yields 304
//   - WriteError: Problem Details
//
// Service errors go through MapServiceError, which logs and hides anything
// it does not recognize.
package handler
