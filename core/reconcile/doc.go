// Package reconcile provides the reconciliation engine that pairs the board game
// collections of two inventory services.
//
// # Architecture
//
// A run goes through fixed states:
//
//	fetching -> filtering -> exact_matching -> fuzzy_matching -> committing -> done
//
// with aborted reachable from fetching only.
//
// 1. Fetching: both Sources are fetched concurrently, each under its own
// timeout. Raw records are normalized into GameRecords; records without a name
// or id are dropped and counted. A SnapshotCache can keep snapshots for a TTL,
// collapsing concurrent fetches with singleflight. Any fetch failure aborts the
// run before anything is written.
//
// 2. Filtering: an item is dropped when its committed counterpart is still
// present in the other snapshot. An item whose counterpart disappeared stays a
// residual for the operator, but its stored match still blocks new claims.
//
// 3. Exact matching: base games are compared by normalized key
// (lower-cased, trimmed name). Expansions never take part.
//
// 4. Fuzzy matching: the residuals go to the optional Matcher. Its candidates
// are resolved back to residual records and sorted by confidence.
//
// 5. Committing: exact pairs go through Store.CommitExact and fuzzy candidates
// through Store.ProposeMatches. Both enforce that every item belongs to at most one
// match per account pair.
//
// # Usage Example
//
//	engine := reconcile.NewEngine(sourceA, sourceB, store, cfg.Sync, logger,
//	    reconcile.WithMatcher(gateway),
//	    reconcile.WithCache(reconcile.NewSnapshotCache(cfg.Sync.CacheTTL())),
//	)
//	result, err := engine.Run(ctx, reconcile.RunOptions{})
package reconcile
