package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToString(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string trimmed", "  13 ", "13"},
		{"bytes", []byte("42\n"), "42"},
		{"int", 7, "7"},
		{"int64", int64(9000000000), "9000000000"},
		{"large float keeps integer form", float64(1234560), "1234560"},
		{"fractional float", 7.5, "7.5"},
		{"json number", json.Number("99"), "99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToString(tt.in))
		})
	}
}

func TestToInt(t *testing.T) {
	assert.Equal(t, 0, ToInt(nil))
	assert.Equal(t, 12, ToInt("12"))
	assert.Equal(t, 12, ToInt(" 12 "))
	assert.Equal(t, 3, ToInt(float64(3.9)))
	assert.Equal(t, 5, ToInt(uint8(5)))
	assert.Equal(t, 0, ToInt("abc"))
	assert.Equal(t, 8, ToInt([]byte("8")))
}

func TestToBool(t *testing.T) {
	assert.True(t, ToBool(true))
	assert.True(t, ToBool(1))
	assert.True(t, ToBool("TRUE"))
	assert.True(t, ToBool("yes"))
	assert.True(t, ToBool([]byte("1")))
	assert.False(t, ToBool(0))
	assert.False(t, ToBool("no"))
	assert.False(t, ToBool(nil))
}
