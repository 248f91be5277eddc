package matcher

import (
	"fmt"
	"sort"
	"strings"

	"boardgame-sync/core/reconcile"
)

const systemPrompt = "You match board game titles between two collections. " +
	"Only pair titles that name the same game; ignore expansions and different games of a series."

// Prompt is a single request to the fuzzy matcher.
type Prompt struct {
	System string
	User   string
	// A and B are the items actually listed in the prompt.
	A []reconcile.GameRecord
	B []reconcile.GameRecord
}

// BuildPrompt lists at most maxNames items per side.
func BuildPrompt(onlyInA, onlyInB []reconcile.GameRecord, maxNames int) Prompt {
	a := SampleRecords(onlyInA, maxNames)
	b := SampleRecords(onlyInB, maxNames)

	var sb strings.Builder
	sb.WriteString("Collection A lists games as \"<id>: <name>\":\n")
	writeItems(&sb, a)
	sb.WriteString("\nCollection B lists games as \"<id>: <name>\":\n")
	writeItems(&sb, b)
	sb.WriteString("\nFind every game of collection A that is the same game as one of collection B under a different spelling.\n")
	sb.WriteString("Each game may appear in at most one pair.\n")
	sb.WriteString(`Answer with JSON only, in this form: {"matches":[{"aId":"<id>","aName":"<name>","bId":"<id>","bName":"<name>","confidence":0.9}]}`)
	sb.WriteString("\nIf nothing matches, answer {\"matches\":[]}.\n")

	return Prompt{System: systemPrompt, User: sb.String(), A: a, B: b}
}

func writeItems(sb *strings.Builder, records []reconcile.GameRecord) {
	for _, r := range records {
		fmt.Fprintf(sb, "%s: %s\n", PromptID(r), strings.TrimSpace(r.DisplayName))
	}
}

// PromptID is the id under which a record is listed.
// Records of a non default variant carry it after a '#'.
func PromptID(r reconcile.GameRecord) string {
	if r.VariantID == "" || r.VariantID == reconcile.DefaultVariantID {
		return r.ProviderID
	}
	return r.ItemKey()
}

// ParsePromptID splits an id written by PromptID.
func ParsePromptID(id string) (providerID, variantID string) {
	id = strings.TrimSpace(id)
	providerID, variantID, _ = strings.Cut(id, "#")
	return providerID, variantID
}

// SampleRecords deduplicates records by normalized name, sorts them, and keeps
// at most max of them, evenly spaced over the whole sorted list.
func SampleRecords(records []reconcile.GameRecord, max int) []reconcile.GameRecord {
	sorted := make([]reconcile.GameRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].NormalizedKey != sorted[j].NormalizedKey {
			return sorted[i].NormalizedKey < sorted[j].NormalizedKey
		}
		return sorted[i].ItemKey() < sorted[j].ItemKey()
	})

	unique := make([]reconcile.GameRecord, 0, len(sorted))
	for _, r := range sorted {
		if len(unique) > 0 && unique[len(unique)-1].NormalizedKey == r.NormalizedKey {
			continue
		}
		unique = append(unique, r)
	}

	if max <= 0 || len(unique) <= max {
		return unique
	}

	sample := make([]reconcile.GameRecord, 0, max)
	n := len(unique)
	for i := 0; i < max; i++ {
		sample = append(sample, unique[i*n/max])
	}
	return sample
}
