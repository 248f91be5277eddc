// Package utils provides loose value conversion for the boardgame-sync application.
// Provider payloads are not consistent about types (ids arrive as numbers, strings or
// raw bytes depending on the decoder), so collaborators funnel them through here
// before a record reaches the reconcile engine.
package utils
