package matches

import (
	"time"

	"boardgame-sync/core/reconcile"
)

// TableName is the table holding committed matches.
const TableName = "game_matches"

// MatchModel is the persisted form of a reconcile.MatchRecord.
// The two unique indexes enforce that every item of an account pair belongs to
// at most one match.
type MatchModel struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement"`
	AccountA    string    `gorm:"column:account_a;size:191;not null;uniqueIndex:idx_matches_a_side,priority:1;uniqueIndex:idx_matches_b_side,priority:1"`
	AccountB    string    `gorm:"column:account_b;size:191;not null;uniqueIndex:idx_matches_a_side,priority:2;uniqueIndex:idx_matches_b_side,priority:2"`
	AProviderID string    `gorm:"column:a_provider_id;size:64;not null;uniqueIndex:idx_matches_a_side,priority:3"`
	AVariantID  string    `gorm:"column:a_variant_id;size:64;not null;default:'0';uniqueIndex:idx_matches_a_side,priority:4"`
	BProviderID string    `gorm:"column:b_provider_id;size:64;not null;uniqueIndex:idx_matches_b_side,priority:3"`
	AName       string    `gorm:"column:a_name;size:255"`
	BName       string    `gorm:"column:b_name;size:255"`
	MatchType   string    `gorm:"column:match_type;size:16;not null"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

// TableName overrides the gorm table name.
func (MatchModel) TableName() string {
	return TableName
}

func (m MatchModel) toRecord() reconcile.MatchRecord {
	return reconcile.MatchRecord{
		ID:          m.ID,
		Scope:       reconcile.Scope{AccountA: m.AccountA, AccountB: m.AccountB},
		AProviderID: m.AProviderID,
		AVariantID:  m.AVariantID,
		BProviderID: m.BProviderID,
		AName:       m.AName,
		BName:       m.BName,
		MatchType:   reconcile.MatchType(m.MatchType),
		CreatedAt:   m.CreatedAt,
	}
}

func newModel(scope reconcile.Scope, c reconcile.Candidate) MatchModel {
	variant := c.AVariantID
	if variant == "" {
		variant = reconcile.DefaultVariantID
	}
	matchType := c.MatchType
	if matchType == "" {
		matchType = reconcile.MatchAISuggested
	}
	return MatchModel{
		AccountA:    scope.AccountA,
		AccountB:    scope.AccountB,
		AProviderID: c.AProviderID,
		AVariantID:  variant,
		BProviderID: c.BProviderID,
		AName:       c.AName,
		BName:       c.BName,
		MatchType:   string(matchType),
	}
}
