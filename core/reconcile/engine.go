package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"boardgame-sync/core/logger"
	"boardgame-sync/core/metrics"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

// RunOptions controls a single reconciliation run.
type RunOptions struct {
	// Review returns fuzzy candidates as pending instead of committing them.
	Review bool
	// DryRun stops after exact matching and commits nothing.
	DryRun bool
}

// Engine runs reconciliation for one account pair.
type Engine struct {
	sourceA Source
	sourceB Source
	store   Store
	matcher Matcher
	archive Archive
	cache   *SnapshotCache
	cfg     Config
	logger  *zap.Logger
}

// Option configures optional collaborators of the Engine.
type Option func(*Engine)

// WithMatcher enables fuzzy matching of the residuals.
func WithMatcher(m Matcher) Option {
	return func(e *Engine) { e.matcher = m }
}

// WithArchive stores every fetched snapshot.
func WithArchive(a Archive) Option {
	return func(e *Engine) { e.archive = a }
}

// WithCache reuses fetched snapshots across runs.
func WithCache(c *SnapshotCache) Option {
	return func(e *Engine) { e.cache = c }
}

// NewEngine creates an engine for the account pair in cfg.
func NewEngine(sourceA, sourceB Source, store Store, cfg Config, l *zap.Logger, opts ...Option) *Engine {
	if l == nil {
		l = zap.NewNop()
	}
	e := &Engine{
		sourceA: sourceA,
		sourceB: sourceB,
		store:   store,
		cfg:     cfg,
		logger:  logger.WithScope(l, cfg.AccountA, cfg.AccountB),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Scope returns the account pair the engine reconciles.
func (e *Engine) Scope() Scope {
	return e.cfg.Scope()
}

// Run fetches both collections and reconciles them.
func (e *Engine) Run(ctx context.Context, opts RunOptions) (*Result, error) {
	start := time.Now()

	snapA, snapB, err := e.Fetch(ctx)
	if err != nil {
		metrics.RecordRun("aborted", start)
		e.logger.Error("Sync aborted", zap.Error(err))
		return &Result{State: StateAborted}, err
	}

	result, err := e.Reconcile(ctx, snapA, snapB, opts)
	if err != nil {
		metrics.RecordRun("failed", start)
		return result, err
	}

	metrics.RecordRun("done", start)
	e.logger.Info("Sync finished",
		zap.Int("exact", result.Summary.Exact),
		zap.Int("fuzzy_accepted", result.Summary.FuzzyAccepted),
		zap.Int("conflicted", result.Summary.Conflicted),
		zap.Int("residual_a", result.Summary.ResidualA),
		zap.Int("residual_b", result.Summary.ResidualB),
		zap.Duration("duration", time.Since(start)),
	)
	return result, nil
}

// Fetch retrieves both snapshots concurrently. Any failure, including a
// partially fetched collection, is returned as ErrFetchFailed.
func (e *Engine) Fetch(ctx context.Context) (*Snapshot, *Snapshot, error) {
	var (
		snapA, snapB *Snapshot
		errA, errB   error
		wg           conc.WaitGroup
	)

	wg.Go(func() { snapA, errA = e.fetch(ctx, e.sourceA) })
	wg.Go(func() { snapB, errB = e.fetch(ctx, e.sourceB) })
	wg.Wait()

	if err := errors.Join(errA, errB); err != nil {
		return nil, nil, err
	}
	return snapA, snapB, nil
}

func (e *Engine) fetch(ctx context.Context, src Source) (*Snapshot, error) {
	load := func(ctx context.Context) (*Snapshot, error) {
		return e.fetchSnapshot(ctx, src)
	}
	if e.cache != nil {
		return e.cache.GetOrFetch(ctx, CacheKey(src.Provider(), src.Account()), load)
	}
	return load(ctx)
}

func (e *Engine) fetchSnapshot(ctx context.Context, src Source) (*Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.FetchTimeout())
	defer cancel()

	raws, err := src.FetchCollection(ctx)
	if err != nil {
		var partial *PartialError
		if errors.As(err, &partial) {
			e.logger.Warn("Partial collection discarded",
				zap.String("provider", string(src.Provider())),
				zap.Int("records", len(raws)),
				zap.Error(err),
			)
		}
		return nil, fmt.Errorf("%w: %s/%s: %w", ErrFetchFailed, src.Provider(), src.Account(), err)
	}

	records, invalid := NormalizeAll(src.Provider(), raws)
	if invalid > 0 {
		e.logger.Warn("Invalid records skipped",
			zap.String("provider", string(src.Provider())),
			zap.Int("invalid", invalid),
		)
	}

	snap := &Snapshot{
		Provider:  src.Provider(),
		Account:   src.Account(),
		Records:   records,
		Invalid:   invalid,
		FetchedAt: time.Now().UTC(),
	}

	if e.archive != nil {
		if err := e.archive.SaveSnapshot(ctx, snap); err != nil {
			e.logger.Warn("Failed to archive snapshot",
				zap.String("provider", string(src.Provider())),
				zap.Error(err),
			)
		}
	}

	return snap, nil
}

// Reconcile runs filtering, exact matching, fuzzy matching and commit on two
// snapshots. A storage failure is returned together with the partial result;
// matches committed before the failure stay committed.
func (e *Engine) Reconcile(ctx context.Context, snapA, snapB *Snapshot, opts RunOptions) (*Result, error) {
	scope := e.Scope()
	result := &Result{
		State: StateFiltering,
		Summary: Summary{
			FetchedA: len(snapA.Records),
			FetchedB: len(snapB.Records),
			InvalidA: snapA.Invalid,
			InvalidB: snapB.Invalid,
		},
	}

	existing, err := e.store.ListMatches(ctx, scope)
	if err != nil {
		return result, fmt.Errorf("failed to list matches: %w", err)
	}
	filtered := FilterMatched(snapA.Records, snapB.Records, existing)
	result.Summary.PreviouslyMatched = len(filtered.Live)

	result.State = StateExactMatching
	exact := ExactMatch(filtered.A, filtered.B)
	result.Summary.DuplicatesA = exact.DuplicatesA
	result.Summary.DuplicatesB = exact.DuplicatesB
	result.OnlyInA = exact.OnlyInA
	result.OnlyInB = exact.OnlyInB

	if opts.DryRun {
		result.Summary.Exact = len(exact.Matches)
		return e.finish(result, filtered.Live, snapA, snapB), nil
	}

	var resolved []Candidate
	if e.matcher != nil && len(exact.OnlyInA) > 0 && len(exact.OnlyInB) > 0 {
		result.State = StateFuzzyMatching
		candidates, err := e.matcher.FindMatches(ctx, exact.OnlyInA, exact.OnlyInB)
		if err != nil {
			result.Summary.MatcherFailed = true
			e.logger.Warn("Fuzzy matcher returned no usable answer", zap.Error(err))
		}

		var unresolved []Rejection
		resolved, unresolved = ResolveCandidates(candidates, exact.OnlyInA, exact.OnlyInB)
		result.Rejected = append(result.Rejected, unresolved...)
		result.Summary.Unresolved = len(unresolved)
		for range unresolved {
			metrics.RecordRejected(string(RejectUnresolved))
		}
	}

	result.State = StateCommitting
	if len(exact.Matches) > 0 {
		committed, err := e.store.CommitExact(ctx, scope, exact.Matches)
		if committed != nil {
			e.applyExact(result, committed, exact.Matches)
		}
		if err != nil {
			return result, fmt.Errorf("failed to commit exact matches: %w", err)
		}
	}

	if opts.Review {
		result.Candidates = resolved
		result.Summary.Pending = len(resolved)
	} else if len(resolved) > 0 {
		proposed, err := e.store.ProposeMatches(ctx, scope, resolved)
		if proposed != nil {
			e.applyProposal(result, proposed)
		}
		if err != nil {
			return result, fmt.Errorf("failed to commit fuzzy matches: %w", err)
		}
	}

	current, err := e.store.ListMatches(ctx, scope)
	if err != nil {
		return result, fmt.Errorf("failed to list matches: %w", err)
	}
	live := NewLiveness(snapA.Records, snapB.Records)
	liveMatches := make([]MatchRecord, 0, len(current))
	for _, m := range current {
		if live.IsLive(m) {
			liveMatches = append(liveMatches, m)
		}
	}
	metrics.SetStored(scope.AccountA, scope.AccountB, len(current))

	return e.finish(result, liveMatches, snapA, snapB), nil
}

// applyExact records committed exact pairs. A refused pair keeps both of its
// items unmatched, so they are reported as residuals.
func (e *Engine) applyExact(result *Result, committed *ProposeResult, pairs []ExactPair) {
	result.Summary.Exact += len(committed.Accepted)
	metrics.RecordCommitted(string(MatchExact), len(committed.Accepted))
	e.recordRejections(result, committed.Rejected)

	byAKey := make(map[string]ExactPair, len(pairs))
	for _, p := range pairs {
		byAKey[p.A.ItemKey()] = p
	}
	for _, rej := range committed.Rejected {
		if p, ok := byAKey[rej.Candidate.AKey()]; ok {
			result.OnlyInA = append(result.OnlyInA, p.A)
			result.OnlyInB = append(result.OnlyInB, p.B)
		}
	}
}

func (e *Engine) recordRejections(result *Result, rejected []Rejection) {
	for _, rej := range rejected {
		result.Rejected = append(result.Rejected, rej)
		result.Summary.Conflicted++
		metrics.RecordRejected(string(rej.Reason))
	}
}

func (e *Engine) applyProposal(result *Result, proposed *ProposeResult) {
	result.Summary.FuzzyAccepted += len(proposed.Accepted)
	metrics.RecordCommitted(string(MatchAISuggested), len(proposed.Accepted))
	e.recordRejections(result, proposed.Rejected)

	acceptedA := make(map[string]struct{}, len(proposed.Accepted))
	acceptedB := make(map[string]struct{}, len(proposed.Accepted))
	for _, m := range proposed.Accepted {
		acceptedA[m.AKey()] = struct{}{}
		acceptedB[m.BProviderID] = struct{}{}
	}
	result.OnlyInA = without(result.OnlyInA, func(r GameRecord) bool {
		_, ok := acceptedA[r.ItemKey()]
		return ok
	})
	result.OnlyInB = without(result.OnlyInB, func(r GameRecord) bool {
		_, ok := acceptedB[r.ProviderID]
		return ok
	})
}

// finish fills the display names of matches from the snapshots and closes the run.
func (e *Engine) finish(result *Result, matches []MatchRecord, snapA, snapB *Snapshot) *Result {
	namesA := make(map[string]string, len(snapA.Records))
	for _, r := range snapA.Records {
		namesA[r.ItemKey()] = r.DisplayName
	}
	namesB := make(map[string]string, len(snapB.Records))
	for _, r := range snapB.Records {
		namesB[r.ProviderID] = r.DisplayName
	}
	for i := range matches {
		if name, ok := namesA[matches[i].AKey()]; ok {
			matches[i].AName = name
		}
		if name, ok := namesB[matches[i].BProviderID]; ok {
			matches[i].BName = name
		}
	}

	result.Matches = matches
	result.Summary.ResidualA = len(result.OnlyInA)
	result.Summary.ResidualB = len(result.OnlyInB)
	result.State = StateDone
	return result
}

// ResolveCandidates binds matcher candidates to residual records, by ids when
// given and by normalized names otherwise. Resolved candidates are returned in
// descending confidence, stable for equal confidence. Candidates naming no
// residual item are returned as unresolved rejections.
func ResolveCandidates(candidates []Candidate, onlyInA, onlyInB []GameRecord) ([]Candidate, []Rejection) {
	aByKey := make(map[string]GameRecord, len(onlyInA))
	aByID := make(map[string]GameRecord, len(onlyInA))
	aByName := make(map[string]GameRecord, len(onlyInA))
	for _, r := range onlyInA {
		aByKey[r.ItemKey()] = r
		if _, ok := aByID[r.ProviderID]; !ok {
			aByID[r.ProviderID] = r
		}
		aByName[r.NormalizedKey] = r
	}
	bByID := make(map[string]GameRecord, len(onlyInB))
	bByName := make(map[string]GameRecord, len(onlyInB))
	for _, r := range onlyInB {
		bByID[r.ProviderID] = r
		bByName[r.NormalizedKey] = r
	}

	resolved := make([]Candidate, 0, len(candidates))
	var unresolved []Rejection
	seen := make(map[string]struct{}, len(candidates))

	for _, c := range candidates {
		var (
			recA, recB GameRecord
			okA, okB   bool
		)
		switch {
		case c.AProviderID != "" && c.AVariantID != "":
			recA, okA = aByKey[ItemKey(c.AProviderID, c.AVariantID)]
		case c.AProviderID != "":
			// A bare id names the default variant; other variants carry their key.
			recA, okA = aByKey[ItemKey(c.AProviderID, DefaultVariantID)]
			if !okA {
				recA, okA = aByID[c.AProviderID]
			}
		}
		if !okA && c.AName != "" {
			recA, okA = aByName[NormalizeKey(c.AName)]
		}
		if c.BProviderID != "" {
			recB, okB = bByID[c.BProviderID]
		}
		if !okB && c.BName != "" {
			recB, okB = bByName[NormalizeKey(c.BName)]
		}

		if !okA || !okB {
			unresolved = append(unresolved, Rejection{Candidate: c, Reason: RejectUnresolved})
			continue
		}

		pair := recA.ItemKey() + "=" + recB.ProviderID
		if _, dup := seen[pair]; dup {
			continue
		}
		seen[pair] = struct{}{}

		matchType := c.MatchType
		if matchType == "" {
			matchType = MatchAISuggested
		}
		resolved = append(resolved, Candidate{
			AProviderID: recA.ProviderID,
			AVariantID:  recA.VariantID,
			AName:       recA.DisplayName,
			BProviderID: recB.ProviderID,
			BName:       recB.DisplayName,
			Confidence:  c.Confidence,
			MatchType:   matchType,
		})
	}

	sort.SliceStable(resolved, func(i, j int) bool {
		return resolved[i].Confidence > resolved[j].Confidence
	})

	return resolved, unresolved
}

func without(records []GameRecord, drop func(GameRecord) bool) []GameRecord {
	out := make([]GameRecord, 0, len(records))
	for _, r := range records {
		if !drop(r) {
			out = append(out, r)
		}
	}
	return out
}
