package reconcile

// ExactPair is a base game present on both sides under the same normalized key.
type ExactPair struct {
	Key string     `json:"key"`
	A   GameRecord `json:"a"`
	B   GameRecord `json:"b"`
}

// ExactResult is the output of ExactMatch.
type ExactResult struct {
	Matches []ExactPair  `json:"matches"`
	OnlyInA []GameRecord `json:"only_in_a"`
	OnlyInB []GameRecord `json:"only_in_b"`
	// DuplicatesA/B count records displaced by a later record with the same key.
	DuplicatesA int `json:"duplicates_a"`
	DuplicatesB int `json:"duplicates_b"`
}

// keyIndex maps normalized keys to their representative record and remembers
// the order in which keys were first seen.
type keyIndex struct {
	records    map[string]GameRecord
	order      []string
	duplicates int
}

// ExactMatch compares two collections by normalized key in linear time.
//
// Only base games take part. When several records of one side share a key,
// the last one in iteration order represents the key and the others are
// counted as duplicates. Matches and OnlyInA follow the order in which keys
// first appear in a, OnlyInB the order in which they first appear in b.
func ExactMatch(a, b []GameRecord) ExactResult {
	indexA := indexByKey(a)
	indexB := indexByKey(b)

	result := ExactResult{
		Matches:     []ExactPair{},
		OnlyInA:     []GameRecord{},
		OnlyInB:     []GameRecord{},
		DuplicatesA: indexA.duplicates,
		DuplicatesB: indexB.duplicates,
	}

	for _, key := range indexA.order {
		recA := indexA.records[key]
		if recB, ok := indexB.records[key]; ok {
			result.Matches = append(result.Matches, ExactPair{Key: key, A: recA, B: recB})
			continue
		}
		result.OnlyInA = append(result.OnlyInA, recA)
	}
	for _, key := range indexB.order {
		if _, ok := indexA.records[key]; !ok {
			result.OnlyInB = append(result.OnlyInB, indexB.records[key])
		}
	}

	return result
}

func indexByKey(records []GameRecord) keyIndex {
	index := keyIndex{
		records: make(map[string]GameRecord, len(records)),
		order:   make([]string, 0, len(records)),
	}
	for _, rec := range records {
		if rec.Kind != KindBase {
			continue
		}
		if _, exists := index.records[rec.NormalizedKey]; exists {
			index.duplicates++
		} else {
			index.order = append(index.order, rec.NormalizedKey)
		}
		index.records[rec.NormalizedKey] = rec
	}
	return index
}
