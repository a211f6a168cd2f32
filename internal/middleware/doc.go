// Package middleware provides HTTP middleware for the Folio API.
//
// # Identity
//
// Authenticate resolves a bearer token or the session cookie into a
// *model.Identity and stores it in the request context. It never rejects a
// request; handlers read the identity with GetIdentity and the service layer
// decides what an anonymous caller may do. RequireIdentity is available for
// routes that are useless without a caller.
//
// # Chain
//
// The server wraps every route as
//
//	Chain(mux, RequestID, Logger, Recovery, CORS(origins), Compress, Authenticate(auth), Idempotency(store))
//
// Login and registration are additionally wrapped in RateLimit.
//
// # Idempotency
//
// A POST or PATCH carrying an Idempotency-Key header is fingerprinted by
// caller, key, route and body. A retry with the same fingerprint gets the
// first response back with X-Idempotency-Replayed set, so a retried upload or
// create does not produce a second record or a spurious conflict.
package middleware
