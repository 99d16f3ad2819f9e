// Package api implements the typed HTTP client for the LEGYENEZ backend.
//
// All endpoints live under the backend's /api root and speak JSON. A [Client]
// is immutable with respect to its credential: [Client.WithToken] derives a new
// client whose transport attaches "Authorization: Bearer <token>" to every
// request, so in-flight requests never observe a half-updated credential.
//
// Non-2xx responses are returned as [*Error] carrying the HTTP status and the
// backend's detail message, which callers surface verbatim (with a generic
// fallback via [ErrorMessage]).
package api
