package reconcile

// Liveness is the set of items present in the current snapshots.
// A nil Liveness treats every item as present.
type Liveness struct {
	a map[string]struct{}
	b map[string]struct{}
}

// NewLiveness indexes the items of both current snapshots.
func NewLiveness(a, b []GameRecord) *Liveness {
	l := &Liveness{
		a: make(map[string]struct{}, len(a)),
		b: make(map[string]struct{}, len(b)),
	}
	for _, rec := range a {
		l.a[rec.ItemKey()] = struct{}{}
	}
	for _, rec := range b {
		l.b[rec.ProviderID] = struct{}{}
	}
	return l
}

// HasA reports whether the A item is present.
func (l *Liveness) HasA(providerID, variantID string) bool {
	if l == nil {
		return true
	}
	_, ok := l.a[ItemKey(providerID, variantID)]
	return ok
}

// HasB reports whether the B item is present.
func (l *Liveness) HasB(providerID string) bool {
	if l == nil {
		return true
	}
	_, ok := l.b[providerID]
	return ok
}

// IsLive reports whether both sides of the match are present.
func (l *Liveness) IsLive(m MatchRecord) bool {
	return l.HasA(m.AProviderID, m.AVariantID) && l.HasB(m.BProviderID)
}

// FilterResult holds the snapshots with already matched items removed.
type FilterResult struct {
	A []GameRecord
	B []GameRecord
	// Live are the existing matches whose both sides are still present.
	Live []MatchRecord
}

// FilterMatched removes items whose recorded counterpart is still present in
// the other current snapshot. An item whose counterpart disappeared stays in
// the residuals so the operator sees it.
func FilterMatched(a, b []GameRecord, existing []MatchRecord) FilterResult {
	live := NewLiveness(a, b)

	aToB := make(map[string]string, len(existing))
	bToA := make(map[string]string, len(existing))
	result := FilterResult{Live: []MatchRecord{}}
	for _, m := range existing {
		aToB[m.AKey()] = m.BProviderID
		bToA[m.BProviderID] = m.AKey()
		if live.IsLive(m) {
			result.Live = append(result.Live, m)
		}
	}

	result.A = make([]GameRecord, 0, len(a))
	for _, rec := range a {
		if bID, ok := aToB[rec.ItemKey()]; ok {
			if _, present := live.b[bID]; present {
				continue
			}
		}
		result.A = append(result.A, rec)
	}

	result.B = make([]GameRecord, 0, len(b))
	for _, rec := range b {
		if aKey, ok := bToA[rec.ProviderID]; ok {
			if _, present := live.a[aKey]; present {
				continue
			}
		}
		result.B = append(result.B, rec)
	}

	return result
}
