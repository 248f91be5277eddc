// Package integrity provides health checks of the infrastructure the
// reconciliation relies on.
//
// # Checks Provided
//
//   - Structure: Checks that the bucket holds the "audit/" and "snapshots/" folders. Supports fixing.
//   - Schema: Validates that the match table has its columns and both unique indexes.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/structure : Runs structure check (supports ?fix=true).
//   - GET /integrity/schema : Runs schema check.
package integrity
