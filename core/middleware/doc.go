// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation (X-API-Key header or Bearer token).
//   - rayid: assigns a request id (RayID) to every request, stored in the
//     context locals and echoed in the X-Ray-ID response header.
//
// RayID must be registered first so every later log line can carry it.
package middleware
