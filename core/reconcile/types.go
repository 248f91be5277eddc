package reconcile

import (
	"errors"
	"fmt"
	"time"
)

// Provider identifies one of the two inventory services being reconciled.
type Provider string

const (
	// ProviderA is the first inventory service (the XML collection API).
	ProviderA Provider = "source_a"
	// ProviderB is the second inventory service (the JSON collection API).
	ProviderB Provider = "source_b"
)

// Kind distinguishes base games from expansions.
type Kind string

const (
	KindBase      Kind = "base"
	KindExpansion Kind = "expansion"
)

// DefaultVariantID is used when a provider does not distinguish editions.
const DefaultVariantID = "0"

// RawRecord is a collection entry as returned by a Source, before normalization.
// IDs are loose because providers disagree on their type.
type RawRecord struct {
	ID         any               `json:"id"`
	VariantID  any               `json:"variant_id,omitempty"`
	Name       string            `json:"name"`
	Kind       string            `json:"kind,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// GameRecord is one normalized item owned by one provider.
// Records are immutable; the next fetch supersedes them wholesale.
type GameRecord struct {
	ProviderID    string            `json:"provider_id"`
	VariantID     string            `json:"variant_id"`
	Provider      Provider          `json:"provider"`
	DisplayName   string            `json:"display_name"`
	NormalizedKey string            `json:"normalized_key"`
	Kind          Kind              `json:"kind"`
	Attributes    map[string]string `json:"attributes,omitempty"`
}

// ItemKey returns the identity of the record within its provider.
func (r GameRecord) ItemKey() string {
	return ItemKey(r.ProviderID, r.VariantID)
}

// ItemKey joins a provider id and variant id into an identity key.
func ItemKey(providerID, variantID string) string {
	if variantID == "" {
		variantID = DefaultVariantID
	}
	return providerID + "#" + variantID
}

// Snapshot is the collection of one account on one provider at fetch time.
type Snapshot struct {
	Provider  Provider     `json:"provider"`
	Account   string       `json:"account"`
	Records   []GameRecord `json:"records"`
	Invalid   int          `json:"invalid"`
	FetchedAt time.Time    `json:"fetched_at"`
}

// MatchType records how a match was established.
type MatchType string

const (
	MatchExact       MatchType = "exact"
	MatchAISuggested MatchType = "ai-suggested"
	MatchManual      MatchType = "manual"
)

// Scope is the pair of provider accounts a set of matches belongs to.
type Scope struct {
	AccountA string `json:"account_a"`
	AccountB string `json:"account_b"`
}

// String returns a printable form of the scope.
func (s Scope) String() string {
	return s.AccountA + "|" + s.AccountB
}

// MatchRecord is a committed correspondence between one A item and one B item.
type MatchRecord struct {
	ID          uint      `json:"id"`
	Scope       Scope     `json:"scope"`
	AProviderID string    `json:"a_provider_id"`
	AVariantID  string    `json:"a_variant_id"`
	BProviderID string    `json:"b_provider_id"`
	AName       string    `json:"a_name"`
	BName       string    `json:"b_name"`
	MatchType   MatchType `json:"match_type"`
	CreatedAt   time.Time `json:"created_at"`
}

// AKey returns the A side identity of the match.
func (m MatchRecord) AKey() string {
	return ItemKey(m.AProviderID, m.AVariantID)
}

// Candidate is a proposed, not yet committed pairing.
type Candidate struct {
	AProviderID string    `json:"a_provider_id,omitempty"`
	AVariantID  string    `json:"a_variant_id,omitempty"`
	AName       string    `json:"a_name,omitempty"`
	BProviderID string    `json:"b_provider_id,omitempty"`
	BName       string    `json:"b_name,omitempty"`
	Confidence  float64   `json:"confidence,omitempty"`
	MatchType   MatchType `json:"match_type,omitempty"`
}

// AKey returns the A side identity of the candidate.
func (c Candidate) AKey() string {
	return ItemKey(c.AProviderID, c.AVariantID)
}

// RejectReason explains why a candidate was not committed.
type RejectReason string

const (
	// RejectASideClaimed means another match already owns the A item.
	RejectASideClaimed RejectReason = "a_side_claimed"
	// RejectBSideClaimed means another match already owns the B item.
	RejectBSideClaimed RejectReason = "b_side_claimed"
	// RejectUnresolved means the candidate does not name a current residual item.
	RejectUnresolved RejectReason = "unresolved"
)

// Rejection is a candidate that was not committed, with the conflicting counterpart.
type Rejection struct {
	Candidate Candidate    `json:"candidate"`
	Reason    RejectReason `json:"reason"`
	// ConflictingID is the counterpart id held by the blocking match.
	ConflictingID string `json:"conflicting_id,omitempty"`
	// ConflictingMatchID is the id of the blocking match record.
	ConflictingMatchID uint `json:"conflicting_match_id,omitempty"`
}

// ProposeResult is the outcome of a ProposeMatches or CommitExact call.
type ProposeResult struct {
	Accepted []MatchRecord `json:"accepted"`
	Rejected []Rejection   `json:"rejected"`
}

// State is a step of the reconciliation run.
type State string

const (
	StateFetching      State = "fetching"
	StateFiltering     State = "filtering"
	StateExactMatching State = "exact_matching"
	StateFuzzyMatching State = "fuzzy_matching"
	StateCommitting    State = "committing"
	StateDone          State = "done"
	StateAborted       State = "aborted"
)

// Summary provides aggregate counts of a run.
type Summary struct {
	FetchedA          int  `json:"fetched_a"`
	FetchedB          int  `json:"fetched_b"`
	InvalidA          int  `json:"invalid_a"`
	InvalidB          int  `json:"invalid_b"`
	PreviouslyMatched int  `json:"previously_matched"`
	Exact             int  `json:"exact"`
	FuzzyAccepted     int  `json:"fuzzy_accepted"`
	Conflicted        int  `json:"conflicted"`
	Unresolved        int  `json:"unresolved"`
	ResidualA         int  `json:"residual_a"`
	ResidualB         int  `json:"residual_b"`
	Pending           int  `json:"pending"`
	DuplicatesA       int  `json:"duplicates_a"`
	DuplicatesB       int  `json:"duplicates_b"`
	MatcherFailed     bool `json:"matcher_failed"`
}

// Result is the terminal output of a run.
type Result struct {
	State State `json:"state"`
	// Matches are the committed matches whose both sides are still present.
	Matches []MatchRecord `json:"matches"`
	OnlyInA []GameRecord  `json:"only_in_a"`
	OnlyInB []GameRecord  `json:"only_in_b"`
	// Candidates are fuzzy suggestions awaiting review.
	Candidates []Candidate `json:"candidates,omitempty"`
	Rejected   []Rejection `json:"rejected,omitempty"`
	Summary    Summary     `json:"summary"`
}

var (
	// ErrEmptyName is returned for records whose name is blank after trimming.
	ErrEmptyName = errors.New("record has an empty name")
	// ErrEmptyID is returned for records without a provider id.
	ErrEmptyID = errors.New("record has an empty id")
	// ErrFetchFailed wraps any collection fetch failure that aborts a run.
	ErrFetchFailed = errors.New("collection fetch failed")
)

// PartialError reports a paginated fetch that failed after the first page.
// The records accumulated so far are returned alongside it.
type PartialError struct {
	Provider Provider
	Pages    int
	Records  int
	Err      error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("%s: fetch stopped after %d pages (%d records): %v", e.Provider, e.Pages, e.Records, e.Err)
}

func (e *PartialError) Unwrap() error {
	return e.Err
}
