package matches

import (
	"context"
	"errors"
	"fmt"

	"boardgame-sync/core/reconcile"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrMatchNotFound is returned when a match id does not exist in the scope.
	ErrMatchNotFound = errors.New("match not found")
	// errConflict rolls back a candidate transaction that hit a unique index.
	errConflict = errors.New("unique index conflict")
)

// Store is the gorm backed match store. It implements reconcile.Store.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewStore creates a new match store.
func NewStore(db *gorm.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, logger: logger}
}

// Migrate creates or updates the match table and its indexes.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&MatchModel{}); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", TableName, err)
	}
	return nil
}

func scoped(db *gorm.DB, scope reconcile.Scope) *gorm.DB {
	return db.Where("account_a = ? AND account_b = ?", scope.AccountA, scope.AccountB)
}

// ListMatches returns every committed match of the scope, oldest first.
func (s *Store) ListMatches(ctx context.Context, scope reconcile.Scope) ([]reconcile.MatchRecord, error) {
	var models []MatchModel
	if err := scoped(s.db.WithContext(ctx), scope).Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	records := make([]reconcile.MatchRecord, len(models))
	for i, m := range models {
		records[i] = m.toRecord()
	}
	return records, nil
}

// Count returns the number of committed matches of the scope.
func (s *Store) Count(ctx context.Context, scope reconcile.Scope) (int64, error) {
	var n int64
	if err := scoped(s.db.WithContext(ctx).Model(&MatchModel{}), scope).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return n, nil
}

// RemoveMatch deletes one match of the scope.
func (s *Store) RemoveMatch(ctx context.Context, scope reconcile.Scope, id uint) error {
	res := scoped(s.db.WithContext(ctx), scope).Where("id = ?", id).Delete(&MatchModel{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove match %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrMatchNotFound
	}
	return nil
}

// ClearMatches deletes every match of the scope and returns how many were removed.
func (s *Store) ClearMatches(ctx context.Context, scope reconcile.Scope) (int64, error) {
	res := scoped(s.db.WithContext(ctx), scope).Delete(&MatchModel{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to clear matches: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// CommitExact stores exact pairs with the same claim rules as ProposeMatches.
// A pair whose A item or B item is still claimed by a stored match, including
// one whose counterpart left the collection, is rejected and the stored match
// is kept.
func (s *Store) CommitExact(ctx context.Context, scope reconcile.Scope, pairs []reconcile.ExactPair) (*reconcile.ProposeResult, error) {
	candidates := make([]reconcile.Candidate, len(pairs))
	for i, pair := range pairs {
		candidates[i] = reconcile.Candidate{
			AProviderID: pair.A.ProviderID,
			AVariantID:  pair.A.VariantID,
			AName:       pair.A.DisplayName,
			BProviderID: pair.B.ProviderID,
			BName:       pair.B.DisplayName,
			Confidence:  1,
			MatchType:   reconcile.MatchExact,
		}
	}
	return s.ProposeMatches(ctx, scope, candidates)
}

// ProposeMatches commits candidates one by one, in input order, each in its own
// transaction. A candidate is rejected when any stored match of the scope
// already claims its A item or its B item; stored matches are never replaced.
// Earlier candidates of the batch block later ones.
//
// Candidates committed before a storage failure stay committed; the partial
// result is returned with the error.
func (s *Store) ProposeMatches(ctx context.Context, scope reconcile.Scope, candidates []reconcile.Candidate) (*reconcile.ProposeResult, error) {
	result := &reconcile.ProposeResult{
		Accepted: []reconcile.MatchRecord{},
		Rejected: []reconcile.Rejection{},
	}

	for _, c := range candidates {
		model := newModel(scope, c)
		var rejection *reconcile.Rejection

		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			rejection = nil

			aOwner, err := findOwner(tx, scope, "a_provider_id = ? AND a_variant_id = ?", model.AProviderID, model.AVariantID)
			if err != nil {
				return err
			}
			if aOwner != nil {
				rejection = conflict(c, reconcile.RejectASideClaimed, aOwner.BProviderID, aOwner.ID)
				return nil
			}

			bOwner, err := findOwner(tx, scope, "b_provider_id = ?", model.BProviderID)
			if err != nil {
				return err
			}
			if bOwner != nil {
				rejection = conflict(c, reconcile.RejectBSideClaimed, bOwner.AProviderID, bOwner.ID)
				return nil
			}

			if err := tx.Create(&model).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return errConflict
				}
				return err
			}
			return nil
		})

		if errors.Is(err, errConflict) {
			rejection, err = s.classifyConflict(ctx, scope, c, model)
		}
		if err != nil {
			return result, fmt.Errorf("failed to propose match %s=%s: %w", model.AProviderID, model.BProviderID, err)
		}

		if rejection != nil {
			s.logRejected(*rejection)
			result.Rejected = append(result.Rejected, *rejection)
			continue
		}
		result.Accepted = append(result.Accepted, model.toRecord())
	}

	return result, nil
}

// classifyConflict names the side of a unique index violation that happened
// after the pre-insert checks, such as a concurrent writer on a shared database.
func (s *Store) classifyConflict(ctx context.Context, scope reconcile.Scope, c reconcile.Candidate, model MatchModel) (*reconcile.Rejection, error) {
	db := s.db.WithContext(ctx)

	aOwner, err := findOwner(db, scope, "a_provider_id = ? AND a_variant_id = ?", model.AProviderID, model.AVariantID)
	if err != nil {
		return nil, err
	}
	if aOwner != nil {
		return conflict(c, reconcile.RejectASideClaimed, aOwner.BProviderID, aOwner.ID), nil
	}

	bOwner, err := findOwner(db, scope, "b_provider_id = ?", model.BProviderID)
	if err != nil {
		return nil, err
	}
	if bOwner != nil {
		return conflict(c, reconcile.RejectBSideClaimed, bOwner.AProviderID, bOwner.ID), nil
	}

	return conflict(c, reconcile.RejectASideClaimed, "", 0), nil
}

func findOwner(db *gorm.DB, scope reconcile.Scope, query string, args ...any) (*MatchModel, error) {
	var owners []MatchModel
	if err := scoped(db, scope).Where(query, args...).Limit(1).Find(&owners).Error; err != nil {
		return nil, err
	}
	if len(owners) == 0 {
		return nil, nil
	}
	return &owners[0], nil
}

func conflict(c reconcile.Candidate, reason reconcile.RejectReason, counterpart string, matchID uint) *reconcile.Rejection {
	return &reconcile.Rejection{
		Candidate:          c,
		Reason:             reason,
		ConflictingID:      counterpart,
		ConflictingMatchID: matchID,
	}
}

// logRejected leaves a trace of every refused claim for operator review.
func (s *Store) logRejected(rej reconcile.Rejection) {
	s.logger.Warn("Match claim rejected",
		zap.String("reason", string(rej.Reason)),
		zap.String("a_id", rej.Candidate.AKey()),
		zap.String("b_id", rej.Candidate.BProviderID),
		zap.String("conflicting_id", rej.ConflictingID),
		zap.Uint("conflicting_match_id", rej.ConflictingMatchID),
	)
}
