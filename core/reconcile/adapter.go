package reconcile

import "context"

// Source fetches the collection of one account on one provider.
//
// FetchCollection pages through the upstream API. A failure on the first page
// is returned as a plain error; a later failure returns the records gathered
// so far together with a *PartialError.
type Source interface {
	Provider() Provider
	Account() string
	FetchCollection(ctx context.Context) ([]RawRecord, error)
}

// Matcher proposes pairings between the residual items of both sides.
//
// It fails closed: an unreachable service or an unusable answer yields no
// candidates. The returned error is a diagnostic for the run summary and never
// aborts a run.
type Matcher interface {
	FindMatches(ctx context.Context, onlyInA, onlyInB []GameRecord) ([]Candidate, error)
}

// Store persists match records under the one-to-one invariant.
// It is the only writer of matches.
type Store interface {
	ListMatches(ctx context.Context, scope Scope) ([]MatchRecord, error)
	CommitExact(ctx context.Context, scope Scope, pairs []ExactPair) (*ProposeResult, error)
	ProposeMatches(ctx context.Context, scope Scope, candidates []Candidate) (*ProposeResult, error)
}

// Archive keeps fetched snapshots for offline inspection.
type Archive interface {
	SaveSnapshot(ctx context.Context, snap *Snapshot) error
}
