package collection

import (
	"context"
	"errors"
	"fmt"

	"boardgame-sync/core/metrics"
	"boardgame-sync/core/reconcile"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

var (
	// ErrArchiveDisabled is returned for offline operations without object storage.
	ErrArchiveDisabled = errors.New("snapshot archive is not configured")
	// ErrNoCandidates is returned when an accept request carries no candidate.
	ErrNoCandidates = errors.New("at least one candidate is required")
)

// Service drives reconciliation runs for one account pair.
type Service struct {
	engine  *reconcile.Engine
	store   reconcile.Store
	archive *Archive
	logger  *zap.Logger
}

// NewService creates a collection service. archive may be nil.
func NewService(engine *reconcile.Engine, store reconcile.Store, archive *Archive, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{engine: engine, store: store, archive: archive, logger: logger}
}

// Scope returns the account pair of the service.
func (s *Service) Scope() reconcile.Scope {
	return s.engine.Scope()
}

// Sync runs a full reconciliation. With review set, fuzzy candidates are
// returned for approval instead of being committed.
func (s *Service) Sync(ctx context.Context, review bool) (*reconcile.Result, error) {
	return s.engine.Run(ctx, reconcile.RunOptions{Review: review})
}

// Residuals lists the unmatched items of both sides without committing
// anything. Offline listing reads the archived snapshots instead of fetching.
func (s *Service) Residuals(ctx context.Context, offline bool) (*reconcile.Result, error) {
	snapA, snapB, err := s.snapshots(ctx, offline)
	if err != nil {
		return nil, err
	}
	return s.engine.Reconcile(ctx, snapA, snapB, reconcile.RunOptions{DryRun: true})
}

// Accept commits reviewed candidates. Both sides of every candidate must be
// present in fresh snapshots; candidates naming a missing item are rejected
// as unresolved.
func (s *Service) Accept(ctx context.Context, candidates []reconcile.Candidate) (*reconcile.ProposeResult, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	snapA, snapB, err := s.engine.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	resolved, unresolved := reconcile.ResolveCandidates(candidates, snapA.Records, snapB.Records)
	res := &reconcile.ProposeResult{}
	if len(resolved) > 0 {
		res, err = s.store.ProposeMatches(ctx, s.Scope(), resolved)
		if err != nil {
			return res, fmt.Errorf("failed to commit candidates: %w", err)
		}
	}
	res.Rejected = append(res.Rejected, unresolved...)

	for _, m := range res.Accepted {
		metrics.RecordCommitted(string(m.MatchType), 1)
	}
	for _, rej := range res.Rejected {
		metrics.RecordRejected(string(rej.Reason))
	}
	s.logger.Info("Candidates reviewed",
		zap.Int("accepted", len(res.Accepted)),
		zap.Int("rejected", len(res.Rejected)),
	)
	return res, nil
}

func (s *Service) snapshots(ctx context.Context, offline bool) (*reconcile.Snapshot, *reconcile.Snapshot, error) {
	if !offline {
		return s.engine.Fetch(ctx)
	}
	if s.archive == nil {
		return nil, nil, ErrArchiveDisabled
	}

	scope := s.Scope()
	var (
		snapA, snapB *reconcile.Snapshot
		errA, errB   error
		wg           conc.WaitGroup
	)
	wg.Go(func() { snapA, errA = s.archive.LoadSnapshot(ctx, reconcile.ProviderA, scope.AccountA) })
	wg.Go(func() { snapB, errB = s.archive.LoadSnapshot(ctx, reconcile.ProviderB, scope.AccountB) })
	wg.Wait()

	if err := errors.Join(errA, errB); err != nil {
		return nil, nil, err
	}
	return snapA, snapB, nil
}
