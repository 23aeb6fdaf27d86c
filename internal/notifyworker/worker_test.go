package notifyworker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractName(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
		want string
	}{
		{"fullName", map[string]any{"fullName": "Ada Lovelace"}, "Ada Lovelace"},
		{"snake case", map[string]any{"full_name": "Ada Lovelace"}, "Ada Lovelace"},
		{"plain name", map[string]any{"name": "Ada"}, "Ada"},
		{"first and last", map[string]any{"firstName": "Ada", "lastName": "Lovelace"}, "Ada Lovelace"},
		{"first only", map[string]any{"firstName": "Ada"}, "Ada"},
		{"fullName wins over parts", map[string]any{"fullName": "Ada L", "firstName": "Ada"}, "Ada L"},
		{"non-string ignored", map[string]any{"fullName": 42}, ""},
		{"empty form", map[string]any{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractName(tt.data))
		})
	}
}

func TestExtractEmail(t *testing.T) {
	assert.Equal(t, "a@b.org", extractEmail(map[string]any{"email": "a@b.org"}))
	assert.Equal(t, "", extractEmail(map[string]any{"email": 7}))
	assert.Equal(t, "", extractEmail(map[string]any{}))
}
