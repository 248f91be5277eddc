// Package metrics declares the Prometheus collectors of boardgame-sync and
// small helpers to record sync runs, committed matches, rejected candidates
// and matcher extractions. The start command exposes them at /metrics.
package metrics
