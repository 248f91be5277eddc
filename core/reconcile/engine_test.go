package reconcile

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSource struct {
	provider Provider
	account  string
	records  []RawRecord
	err      error
	calls    int
	mu       sync.Mutex
}

func (s *fakeSource) Provider() Provider { return s.provider }
func (s *fakeSource) Account() string    { return s.account }
func (s *fakeSource) FetchCollection(ctx context.Context) ([]RawRecord, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.records, s.err
}

// memStore is an in-memory Store with the same conflict rules as the gorm store.
type memStore struct {
	records   []MatchRecord
	nextID    uint
	failAfter int
	proposed  int
	listErr   error
}

func (m *memStore) ListMatches(ctx context.Context, scope Scope) ([]MatchRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]MatchRecord, len(m.records))
	copy(out, m.records)
	return out, nil
}

func (m *memStore) insert(scope Scope, aID, aVariant, aName, bID, bName string, t MatchType) MatchRecord {
	m.nextID++
	r := MatchRecord{ID: m.nextID, Scope: scope, AProviderID: aID, AVariantID: aVariant, AName: aName, BProviderID: bID, BName: bName, MatchType: t, CreatedAt: time.Now()}
	m.records = append(m.records, r)
	return r
}

func (m *memStore) CommitExact(ctx context.Context, scope Scope, pairs []ExactPair) (*ProposeResult, error) {
	candidates := make([]Candidate, len(pairs))
	for i, p := range pairs {
		candidates[i] = Candidate{AProviderID: p.A.ProviderID, AVariantID: p.A.VariantID, AName: p.A.DisplayName, BProviderID: p.B.ProviderID, BName: p.B.DisplayName, MatchType: MatchExact}
	}
	return m.ProposeMatches(ctx, scope, candidates)
}

func (m *memStore) ProposeMatches(ctx context.Context, scope Scope, candidates []Candidate) (*ProposeResult, error) {
	res := &ProposeResult{}
	for _, c := range candidates {
		if m.failAfter > 0 && m.proposed >= m.failAfter {
			return res, errors.New("database is locked")
		}
		m.proposed++

		var rejection *Rejection
		for _, r := range m.records {
			if r.AKey() == c.AKey() {
				rejection = &Rejection{Candidate: c, Reason: RejectASideClaimed, ConflictingID: r.BProviderID, ConflictingMatchID: r.ID}
				break
			}
			if r.BProviderID == c.BProviderID {
				rejection = &Rejection{Candidate: c, Reason: RejectBSideClaimed, ConflictingID: r.AProviderID, ConflictingMatchID: r.ID}
				break
			}
		}
		if rejection != nil {
			res.Rejected = append(res.Rejected, *rejection)
			continue
		}
		res.Accepted = append(res.Accepted, m.insert(scope, c.AProviderID, c.AVariantID, c.AName, c.BProviderID, c.BName, c.MatchType))
	}
	return res, nil
}

type fakeMatcher struct {
	candidates []Candidate
	err        error
	calls      int
}

func (f *fakeMatcher) FindMatches(ctx context.Context, a, b []GameRecord) ([]Candidate, error) {
	f.calls++
	return f.candidates, f.err
}

type fakeArchive struct {
	mu    sync.Mutex
	saved []*Snapshot
	err   error
}

func (f *fakeArchive) SaveSnapshot(ctx context.Context, snap *Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, snap)
	return f.err
}

func testConfig() Config {
	return Config{AccountA: "alice", AccountB: "alice-b", FetchTimeoutSeconds: 5}
}

func newSources(a, b []RawRecord) (*fakeSource, *fakeSource) {
	return &fakeSource{provider: ProviderA, account: "alice", records: a},
		&fakeSource{provider: ProviderB, account: "alice-b", records: b}
}

func TestEngine_EndToEndExact(t *testing.T) {
	srcA, srcB := newSources(
		[]RawRecord{{ID: 1, Name: "Catan", Kind: "base"}},
		[]RawRecord{{ID: 9, Name: "catan", Kind: "base"}},
	)
	store := &memStore{}
	engine := NewEngine(srcA, srcB, store, testConfig(), zap.NewNop())

	res, err := engine.Run(context.Background(), RunOptions{})
	require.NoError(t, err)

	assert.Equal(t, StateDone, res.State)
	assert.Equal(t, 1, res.Summary.Exact)
	assert.Empty(t, res.OnlyInA)
	assert.Empty(t, res.OnlyInB)
	require.Len(t, store.records, 1)
	assert.Equal(t, MatchExact, store.records[0].MatchType)
	assert.Equal(t, "1", store.records[0].AProviderID)
	assert.Equal(t, "9", store.records[0].BProviderID)
	require.Len(t, res.Matches, 1)
	assert.Equal(t, "Catan", res.Matches[0].AName)
	assert.Equal(t, "catan", res.Matches[0].BName)
}

func TestEngine_Idempotent(t *testing.T) {
	srcA, srcB := newSources(
		[]RawRecord{{ID: 1, Name: "Catan"}, {ID: 2, Name: "Azul"}, {ID: 3, Name: "Brass: Lancashire"}},
		[]RawRecord{{ID: 9, Name: "catan"}, {ID: 8, Name: "AZUL"}, {ID: 7, Name: "Brass Lancashire"}},
	)
	store := &memStore{}
	matcher := &fakeMatcher{candidates: []Candidate{{AName: "Brass: Lancashire", BName: "Brass Lancashire"}}}
	engine := NewEngine(srcA, srcB, store, testConfig(), zap.NewNop(), WithMatcher(matcher))

	first, err := engine.Run(context.Background(), RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, first.Summary.Exact)
	assert.Equal(t, 1, first.Summary.FuzzyAccepted)
	assert.Len(t, store.records, 3)

	second, err := engine.Run(context.Background(), RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, second.Summary.Exact)
	assert.Equal(t, 0, second.Summary.FuzzyAccepted)
	assert.Equal(t, 3, second.Summary.PreviouslyMatched)
	assert.Len(t, store.records, 3)
	assert.Len(t, second.Matches, 3)
	assert.Equal(t, 1, matcher.calls)
}

func TestEngine_FetchFailureAborts(t *testing.T) {
	srcA, srcB := newSources([]RawRecord{{ID: 1, Name: "Catan"}}, nil)
	srcB.err = errors.New("connection refused")
	store := &memStore{}
	engine := NewEngine(srcA, srcB, store, testConfig(), zap.NewNop())

	res, err := engine.Run(context.Background(), RunOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.Equal(t, StateAborted, res.State)
	assert.Empty(t, store.records)
}

func TestEngine_PartialFetchAborts(t *testing.T) {
	srcA, srcB := newSources([]RawRecord{{ID: 1, Name: "Catan"}}, []RawRecord{{ID: 9, Name: "Catan"}})
	srcA.err = &PartialError{Provider: ProviderA, Pages: 1, Records: 1, Err: errors.New("503")}
	store := &memStore{}
	engine := NewEngine(srcA, srcB, store, testConfig(), zap.NewNop())

	_, err := engine.Run(context.Background(), RunOptions{})

	var partial *PartialError
	assert.ErrorAs(t, err, &partial)
	assert.Empty(t, store.records)
}

func TestEngine_MatcherFailureIsNotFatal(t *testing.T) {
	srcA, srcB := newSources(
		[]RawRecord{{ID: 1, Name: "Catan"}, {ID: 2, Name: "Ticket to Ride"}},
		[]RawRecord{{ID: 9, Name: "Catan"}, {ID: 8, Name: "Ticket To Ride: Europe"}},
	)
	store := &memStore{}
	matcher := &fakeMatcher{err: errors.New("no structured data")}
	engine := NewEngine(srcA, srcB, store, testConfig(), zap.NewNop(), WithMatcher(matcher))

	res, err := engine.Run(context.Background(), RunOptions{})
	require.NoError(t, err)
	assert.True(t, res.Summary.MatcherFailed)
	assert.Equal(t, 1, res.Summary.Exact)
	assert.Equal(t, 1, res.Summary.ResidualA)
	assert.Equal(t, 1, res.Summary.ResidualB)
}

func TestEngine_MatcherSkippedWhenSideEmpty(t *testing.T) {
	srcA, srcB := newSources(
		[]RawRecord{{ID: 1, Name: "Catan"}, {ID: 2, Name: "Azul"}},
		[]RawRecord{{ID: 9, Name: "Catan"}},
	)
	matcher := &fakeMatcher{}
	engine := NewEngine(srcA, srcB, &memStore{}, testConfig(), zap.NewNop(), WithMatcher(matcher))

	_, err := engine.Run(context.Background(), RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, matcher.calls)
}

func TestEngine_ReviewMode(t *testing.T) {
	srcA, srcB := newSources(
		[]RawRecord{{ID: 2, Name: "Ticket to Ride"}},
		[]RawRecord{{ID: 8, Name: "Ticket To Ride (2004)"}},
	)
	store := &memStore{}
	matcher := &fakeMatcher{candidates: []Candidate{{AProviderID: "2", BProviderID: "8", Confidence: 0.9}}}
	engine := NewEngine(srcA, srcB, store, testConfig(), zap.NewNop(), WithMatcher(matcher))

	res, err := engine.Run(context.Background(), RunOptions{Review: true})
	require.NoError(t, err)
	assert.Empty(t, store.records)
	require.Len(t, res.Candidates, 1)
	assert.Equal(t, "Ticket to Ride", res.Candidates[0].AName)
	assert.Equal(t, MatchAISuggested, res.Candidates[0].MatchType)
	assert.Equal(t, 1, res.Summary.Pending)
	assert.Equal(t, 1, res.Summary.ResidualA)
}

func TestEngine_StaleCounterpartStillBlocks(t *testing.T) {
	srcA, srcB := newSources(
		[]RawRecord{{ID: 1, Name: "Catan"}},
		[]RawRecord{{ID: 7, Name: "Settlers of Catan"}},
	)
	store := &memStore{}
	store.insert(Scope{AccountA: "alice", AccountB: "alice-b"}, "1", "0", "Catan", "9", "catan", MatchExact)

	matcher := &fakeMatcher{candidates: []Candidate{{AName: "Catan", BName: "Settlers of Catan"}}}
	engine := NewEngine(srcA, srcB, store, testConfig(), zap.NewNop(), WithMatcher(matcher))

	res, err := engine.Run(context.Background(), RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Summary.PreviouslyMatched)
	assert.Equal(t, 0, res.Summary.FuzzyAccepted)
	assert.Equal(t, 1, res.Summary.Conflicted)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, RejectASideClaimed, res.Rejected[0].Reason)
	assert.Equal(t, "9", res.Rejected[0].ConflictingID)
	assert.Equal(t, []string{"1"}, ids(res.OnlyInA))
	assert.Equal(t, []string{"7"}, ids(res.OnlyInB))
	require.Len(t, store.records, 1)
	assert.Equal(t, "9", store.records[0].BProviderID)
}

func TestEngine_ExactPairOnClaimedItemRejected(t *testing.T) {
	srcA, srcB := newSources(
		[]RawRecord{{ID: 1, Name: "Catan"}, {ID: 2, Name: "Azul"}},
		[]RawRecord{{ID: 7, Name: "Catan"}, {ID: 8, Name: "Azul"}},
	)
	store := &memStore{}
	store.insert(Scope{AccountA: "alice", AccountB: "alice-b"}, "1", "0", "Catan", "9", "Catan", MatchManual)
	engine := NewEngine(srcA, srcB, store, testConfig(), zap.NewNop())

	res, err := engine.Run(context.Background(), RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Summary.Exact)
	assert.Equal(t, 1, res.Summary.Conflicted)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, RejectASideClaimed, res.Rejected[0].Reason)
	assert.Equal(t, "9", res.Rejected[0].ConflictingID)
	assert.Equal(t, []string{"1"}, ids(res.OnlyInA))
	assert.Equal(t, []string{"7"}, ids(res.OnlyInB))
	require.Len(t, store.records, 2)
	assert.Equal(t, "9", store.records[0].BProviderID)
}

func TestEngine_ConflictingCandidatesOrderedByConfidence(t *testing.T) {
	srcA, srcB := newSources(
		[]RawRecord{{ID: 1, Name: "Pandemic"}, {ID: 2, Name: "Pandemic Legacy"}},
		[]RawRecord{{ID: 9, Name: "Pandemic (2008)"}},
	)
	store := &memStore{}
	matcher := &fakeMatcher{candidates: []Candidate{
		{AProviderID: "2", BProviderID: "9", Confidence: 0.4},
		{AProviderID: "1", BProviderID: "9", Confidence: 0.95},
	}}
	engine := NewEngine(srcA, srcB, store, testConfig(), zap.NewNop(), WithMatcher(matcher))

	res, err := engine.Run(context.Background(), RunOptions{})
	require.NoError(t, err)
	require.Len(t, store.records, 1)
	assert.Equal(t, "1", store.records[0].AProviderID)
	assert.Equal(t, 1, res.Summary.Conflicted)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, RejectBSideClaimed, res.Rejected[0].Reason)
	assert.Equal(t, "1", res.Rejected[0].ConflictingID)
	assert.Equal(t, []string{"2"}, ids(res.OnlyInA))
	assert.Empty(t, res.OnlyInB)
}

func TestEngine_StorageFailureKeepsPartialResult(t *testing.T) {
	srcA, srcB := newSources(
		[]RawRecord{{ID: 1, Name: "Root"}, {ID: 2, Name: "Everdell"}},
		[]RawRecord{{ID: 9, Name: "Root: A Game of Woodland Might"}, {ID: 8, Name: "Everdell (2018)"}},
	)
	store := &memStore{failAfter: 1}
	matcher := &fakeMatcher{candidates: []Candidate{
		{AProviderID: "1", BProviderID: "9"},
		{AProviderID: "2", BProviderID: "8"},
	}}
	engine := NewEngine(srcA, srcB, store, testConfig(), zap.NewNop(), WithMatcher(matcher))

	res, err := engine.Run(context.Background(), RunOptions{})
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 1, res.Summary.FuzzyAccepted)
	assert.Len(t, store.records, 1)
}

func TestEngine_ArchiveAndCache(t *testing.T) {
	srcA, srcB := newSources([]RawRecord{{ID: 1, Name: "Catan"}}, []RawRecord{{ID: 9, Name: "Catan"}})
	archive := &fakeArchive{err: errors.New("bucket missing")}
	cache := NewSnapshotCache(time.Minute)
	engine := NewEngine(srcA, srcB, &memStore{}, testConfig(), zap.NewNop(), WithArchive(archive), WithCache(cache))

	_, err := engine.Run(context.Background(), RunOptions{})
	require.NoError(t, err)
	_, err = engine.Run(context.Background(), RunOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, srcA.calls)
	assert.Equal(t, 1, srcB.calls)
	assert.Len(t, archive.saved, 2)
}

func TestEngine_InvalidRecordsCounted(t *testing.T) {
	srcA, srcB := newSources(
		[]RawRecord{{ID: 1, Name: "Catan"}, {ID: 2, Name: " "}},
		[]RawRecord{{ID: 9, Name: "Catan"}, {Name: "No id"}},
	)
	engine := NewEngine(srcA, srcB, &memStore{}, testConfig(), zap.NewNop())

	res, err := engine.Run(context.Background(), RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Summary.InvalidA)
	assert.Equal(t, 1, res.Summary.InvalidB)
	assert.Equal(t, 1, res.Summary.FetchedA)
}

func TestEngine_DryRun(t *testing.T) {
	srcA, srcB := newSources(
		[]RawRecord{{ID: 1, Name: "Catan"}, {ID: 2, Name: "Azul"}},
		[]RawRecord{{ID: 9, Name: "Catan"}},
	)
	store := &memStore{}
	engine := NewEngine(srcA, srcB, store, testConfig(), zap.NewNop())

	snapA, snapB, err := engine.Fetch(context.Background())
	require.NoError(t, err)

	res, err := engine.Reconcile(context.Background(), snapA, snapB, RunOptions{DryRun: true})
	require.NoError(t, err)
	assert.Empty(t, store.records)
	assert.Equal(t, 1, res.Summary.Exact)
	assert.Equal(t, []string{"2"}, ids(res.OnlyInA))
}

func TestResolveCandidates(t *testing.T) {
	a := []GameRecord{rec(ProviderA, "1", "Catan", KindBase), rec(ProviderA, "2", "Azul", KindBase)}
	b := []GameRecord{rec(ProviderB, "9", "Settlers of Catan", KindBase), rec(ProviderB, "8", "Azul: Summer", KindBase)}

	resolved, unresolved := ResolveCandidates([]Candidate{
		{AName: "catan", BName: "Settlers of Catan", Confidence: 0.2},
		{AProviderID: "2", BProviderID: "8", Confidence: 0.8},
		{AProviderID: "2", BProviderID: "8", Confidence: 0.8},
		{AName: "Unknown", BName: "Azul: Summer"},
		{AProviderID: "1", BName: "Not in residuals"},
	}, a, b)

	require.Len(t, resolved, 2)
	assert.Equal(t, "2", resolved[0].AProviderID)
	assert.Equal(t, "1", resolved[1].AProviderID)
	assert.Equal(t, "9", resolved[1].BProviderID)
	assert.Equal(t, "Catan", resolved[1].AName)
	assert.Equal(t, "0", resolved[1].AVariantID)
	require.Len(t, unresolved, 2)
	assert.Equal(t, RejectUnresolved, unresolved[0].Reason)
}

func TestResolveCandidates_BareIDPrefersDefaultVariant(t *testing.T) {
	deluxe := rec(ProviderA, "1", "Alpha Deluxe", KindBase)
	deluxe.VariantID = "55"
	a := []GameRecord{deluxe, rec(ProviderA, "1", "Zeta", KindBase)}
	b := []GameRecord{rec(ProviderB, "9", "Zeta", KindBase)}

	resolved, unresolved := ResolveCandidates([]Candidate{{AProviderID: "1", BProviderID: "9"}}, a, b)

	assert.Empty(t, unresolved)
	require.Len(t, resolved, 1)
	assert.Equal(t, DefaultVariantID, resolved[0].AVariantID)
	assert.Equal(t, "Zeta", resolved[0].AName)

	// Without a default variant the bare id still binds the only listed edition.
	resolved, _ = ResolveCandidates([]Candidate{{AProviderID: "1", BProviderID: "9"}}, []GameRecord{deluxe}, b)
	require.Len(t, resolved, 1)
	assert.Equal(t, "55", resolved[0].AVariantID)
}
