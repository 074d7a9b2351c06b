// Package oauth2 implements client-credentials token acquisition and caching
// for the Wiz API.
//
// # Overview
//
// The proxy authenticates to Wiz with a single OAuth 2.0 client-credentials
// grant. This package owns that lifecycle: it requests tokens from the auth
// endpoint, caches the result in process, and hands out the cached token
// until it approaches expiry.
//
// # Token Lifecycle
//
//  1. A caller asks the Manager for a token.
//  2. On a cache hit the cached token is returned without network I/O.
//  3. On a miss the Manager sends a form-encoded client_credentials request
//     to the auth endpoint and caches the returned token.
//  4. The cached lifetime is the advertised expires_in minus a 60 second
//     safety margin, so a token close to expiry is never forwarded.
//
// # Concurrency
//
// The cache is safe for concurrent readers. Acquisition is serialized so a
// burst of requests arriving with a cold or expired cache results in a
// single token request.
//
// # Error Handling
//
// Failures surface as authentication errors carrying the auth endpoint's
// status code and response body. The Manager never retries; callers decide
// whether to try again.
package oauth2
