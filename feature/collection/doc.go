// Package collection exposes reconciliation runs over HTTP.
//
// It triggers full syncs (optionally holding fuzzy candidates for review),
// lists the residual items of both collections, and commits reviewed
// candidates once both of their items are confirmed present upstream.
//
// Fetched snapshots can be archived in object storage under "snapshots/",
// which lets residuals be listed offline.
//
// # Endpoints
//
//   - POST /sync?review=true
//   - GET /sync/residuals?offline=true
//   - POST /sync/candidates
package collection
