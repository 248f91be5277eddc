package matches

import (
	"context"
	"errors"
	"strings"

	"boardgame-sync/core/metrics"
	"boardgame-sync/core/reconcile"

	"go.uber.org/zap"
)

// ErrInvalidPair is returned when a manual pair lacks one of its ids.
var ErrInvalidPair = errors.New("both a_id and b_id are required")

// ManualPair is an operator supplied correspondence.
type ManualPair struct {
	AProviderID string `json:"a_id"`
	AVariantID  string `json:"a_variant_id,omitempty"`
	AName       string `json:"a_name,omitempty"`
	BProviderID string `json:"b_id"`
	BName       string `json:"b_name,omitempty"`
}

// Service exposes the housekeeping operations of the match store for one
// account pair.
type Service struct {
	store  *Store
	scope  reconcile.Scope
	logger *zap.Logger
}

// NewService creates a new matches service.
func NewService(store *Store, scope reconcile.Scope, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, scope: scope, logger: logger}
}

// Scope returns the account pair the service works on.
func (s *Service) Scope() reconcile.Scope {
	return s.scope
}

// List returns every committed match.
func (s *Service) List(ctx context.Context) ([]reconcile.MatchRecord, error) {
	return s.store.ListMatches(ctx, s.scope)
}

// AddManual commits an operator pair. Any existing claim on either item
// blocks it.
func (s *Service) AddManual(ctx context.Context, pair ManualPair) (*reconcile.ProposeResult, error) {
	pair.AProviderID = strings.TrimSpace(pair.AProviderID)
	pair.BProviderID = strings.TrimSpace(pair.BProviderID)
	if pair.AProviderID == "" || pair.BProviderID == "" {
		return nil, ErrInvalidPair
	}

	res, err := s.store.ProposeMatches(ctx, s.scope, []reconcile.Candidate{{
		AProviderID: pair.AProviderID,
		AVariantID:  strings.TrimSpace(pair.AVariantID),
		AName:       pair.AName,
		BProviderID: pair.BProviderID,
		BName:       pair.BName,
		MatchType:   reconcile.MatchManual,
	}})
	if err != nil {
		return res, err
	}

	metrics.RecordCommitted(string(reconcile.MatchManual), len(res.Accepted))
	for _, rej := range res.Rejected {
		metrics.RecordRejected(string(rej.Reason))
		s.logger.Info("Manual pair rejected",
			zap.String("reason", string(rej.Reason)),
			zap.String("conflicting_id", rej.ConflictingID),
		)
	}
	return res, nil
}

// Remove deletes one match.
func (s *Service) Remove(ctx context.Context, id uint) error {
	return s.store.RemoveMatch(ctx, s.scope, id)
}

// Clear deletes every match of the account pair.
func (s *Service) Clear(ctx context.Context) (int64, error) {
	n, err := s.store.ClearMatches(ctx, s.scope)
	if err != nil {
		return 0, err
	}
	s.logger.Warn("Matches cleared", zap.Int64("deleted", n))
	return n, nil
}
