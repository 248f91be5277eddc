package reconcile

import (
	"strings"

	"boardgame-sync/core/utils"
)

// NormalizeKey returns the comparison form of a display name.
// Only case and surrounding whitespace are folded.
func NormalizeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NormalizeKind maps provider kind labels onto Kind.
func NormalizeKind(kind string) Kind {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "expansion", "boardgameexpansion", "exp":
		return KindExpansion
	default:
		return KindBase
	}
}

// Normalize converts a raw provider record into a GameRecord.
func Normalize(provider Provider, raw RawRecord) (GameRecord, error) {
	id := utils.ToString(raw.ID)
	if id == "" {
		return GameRecord{}, ErrEmptyID
	}

	key := NormalizeKey(raw.Name)
	if key == "" {
		return GameRecord{}, ErrEmptyName
	}

	variant := utils.ToString(raw.VariantID)
	if variant == "" {
		variant = DefaultVariantID
	}

	return GameRecord{
		ProviderID:    id,
		VariantID:     variant,
		Provider:      provider,
		DisplayName:   raw.Name,
		NormalizedKey: key,
		Kind:          NormalizeKind(raw.Kind),
		Attributes:    raw.Attributes,
	}, nil
}

// NormalizeAll normalizes a collection, dropping invalid records.
// Input order is preserved; invalid is the number of dropped records.
func NormalizeAll(provider Provider, raws []RawRecord) (records []GameRecord, invalid int) {
	records = make([]GameRecord, 0, len(raws))
	for _, raw := range raws {
		rec, err := Normalize(provider, raw)
		if err != nil {
			invalid++
			continue
		}
		records = append(records, rec)
	}
	return records, invalid
}
