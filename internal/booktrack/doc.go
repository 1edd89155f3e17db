// Package booktrack provides the HTTP client for the book-tracking
// service API.
//
// # Overview
//
// The package owns the three concerns that sit between the UI and the
// remote service: the request pipeline that attaches the session
// credential, the error normalizer that maps every failure into a closed
// taxonomy, and the record normalizer that converts the service's
// heterogeneous payload shapes into one canonical Book.
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation and timeout control
//   - Re-read the session credential through TokenSource per request
//   - Set Accept/Content-Type, User-Agent, and a per-request X-Request-ID
//   - Have a 10-second timeout (configurable via http.Client)
//
// A request whose session read fails is sent anonymously rather than
// failing closed; anonymous endpoints (login, register) depend on that.
//
// # Error Handling
//
// Every operation that fails returns a *Error with exactly one Kind:
//
//   - KindNetwork: no response reached the server
//   - KindValidation: the server returned a field-error map, or a local
//     pre-flight check rejected the input
//   - KindServerMessage: the server returned a bare message
//   - KindAuth: 401/403 without a usable body
//   - KindNotFound: 404 without a usable body
//   - KindUnknown: everything else, surfaced as "Network error"
//
// Nothing is retried here; the classification is total and raw transport
// errors are reachable only through errors.Unwrap.
//
// # Record Normalization
//
// The service has shipped records keyed "id" or "_id", page counts under
// "totalPages" or "total_pages" as numbers or numeric strings, and
// owners under "ownerId" or "userId". NormalizeBook resolves each
// through an explicit alias table, coerces page counts to a non-negative
// int, and fills missing timestamps. Normalization is idempotent, so
// already-canonical records pass through unchanged.
package booktrack
