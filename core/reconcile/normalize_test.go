package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	rec, err := Normalize(ProviderA, RawRecord{ID: 13, Name: "  Catan ", Kind: "boardgame", Attributes: map[string]string{"year": "1995"}})
	require.NoError(t, err)

	assert.Equal(t, "13", rec.ProviderID)
	assert.Equal(t, DefaultVariantID, rec.VariantID)
	assert.Equal(t, ProviderA, rec.Provider)
	assert.Equal(t, "  Catan ", rec.DisplayName)
	assert.Equal(t, "catan", rec.NormalizedKey)
	assert.Equal(t, KindBase, rec.Kind)
	assert.Equal(t, "1995", rec.Attributes["year"])
}

func TestNormalize_LooseIDs(t *testing.T) {
	rec, err := Normalize(ProviderB, RawRecord{ID: float64(42), VariantID: "7", Name: "Azul"})
	require.NoError(t, err)
	assert.Equal(t, "42", rec.ProviderID)
	assert.Equal(t, "7", rec.VariantID)

	rec, err = Normalize(ProviderB, RawRecord{ID: []byte("x1"), VariantID: "", Name: "Azul"})
	require.NoError(t, err)
	assert.Equal(t, "x1", rec.ProviderID)
	assert.Equal(t, "0", rec.VariantID)
}

func TestNormalize_Invalid(t *testing.T) {
	_, err := Normalize(ProviderA, RawRecord{ID: 1, Name: "   "})
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = Normalize(ProviderA, RawRecord{Name: "Catan"})
	assert.ErrorIs(t, err, ErrEmptyID)
}

func TestNormalize_NoAccentFolding(t *testing.T) {
	rec, err := Normalize(ProviderA, RawRecord{ID: 1, Name: "Café International!"})
	require.NoError(t, err)
	assert.Equal(t, "café international!", rec.NormalizedKey)
}

func TestNormalizeKind(t *testing.T) {
	tests := map[string]Kind{
		"expansion":          KindExpansion,
		"boardgameexpansion": KindExpansion,
		" EXP ":              KindExpansion,
		"boardgame":          KindBase,
		"":                   KindBase,
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeKind(in), in)
	}
}

func TestNormalizeAll(t *testing.T) {
	records, invalid := NormalizeAll(ProviderA, []RawRecord{
		{ID: 1, Name: "Catan"},
		{ID: 2, Name: ""},
		{ID: nil, Name: "Orphan"},
		{ID: 3, Name: "Azul"},
	})

	assert.Equal(t, 2, invalid)
	require.Len(t, records, 2)
	assert.Equal(t, "1", records[0].ProviderID)
	assert.Equal(t, "3", records[1].ProviderID)
}
