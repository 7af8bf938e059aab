// Package controller contains HTTP middlewares and helper handlers shared by
// the API server.
//
// Middlewares:
//   - WithCORS: answers preflight requests and sets CORS headers for a single
//     allowed origin.
//   - WithLogger: attaches a request-scoped logger and request ID to the
//     context and writes one access log line per request.
//
// Helpers:
//   - PprofMux: a ServeMux exposing net/http/pprof handlers.
package controller
