package redact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMask(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		prefix int
		want   string
	}{
		{name: "empty", value: "", prefix: 4, want: ""},
		{name: "prefix shown", value: "sk-test-123", prefix: 4, want: "sk-t*******"},
		{name: "short value fully masked", value: "abcd", prefix: 4, want: "****"},
		{name: "zero prefix", value: "secret", prefix: 0, want: "******"},
		{name: "negative prefix", value: "secret", prefix: -2, want: "******"},
		{name: "multibyte", value: "clé-secrète", prefix: 3, want: "clé********"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Mask(tt.value, tt.prefix)
			assert.Equal(t, tt.want, got)
			if tt.value != "" && tt.prefix < len(tt.value) {
				assert.NotEqual(t, tt.value, got)
			}
		})
	}
}

func TestLooksLikeToken(t *testing.T) {
	assert.True(t, LooksLikeToken("b4844eae6f90c04e603ddf90fe2d7485"))
	assert.False(t, LooksLikeToken("OPENWEATHER_API_KEY"))
	assert.False(t, LooksLikeToken("api_key"))
	assert.False(t, LooksLikeToken("short1"))
	assert.False(t, LooksLikeToken("abcdefghijklmnopqrstuvwxyz"))
}
