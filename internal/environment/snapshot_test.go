package environment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnviron(t *testing.T) {
	s := FromEnviron([]string{
		"HOME=/root",
		"EMPTY=",
		"WITH_EQUALS=a=b=c",
		"",
		"=ignored",
		"NOEQUALS",
	})

	assert.Equal(t, 3, s.Len())

	value, ok := s.Lookup("WITH_EQUALS")
	require.True(t, ok)
	assert.Equal(t, "a=b=c", value)
	assert.Equal(t, SourceProcess, s.Source("HOME"))
}

func TestSnapshot_Lookup(t *testing.T) {
	s := FromEnviron([]string{"SET=value", "EMPTY="})

	tests := []struct {
		name      string
		key       string
		wantValue string
		wantOK    bool
	}{
		{name: "set", key: "SET", wantValue: "value", wantOK: true},
		{name: "empty is absent", key: "EMPTY", wantValue: "", wantOK: false},
		{name: "unset", key: "UNSET", wantValue: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, ok := s.Lookup(tt.key)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantValue, value)
		})
	}
}

func TestSnapshot_Merge(t *testing.T) {
	t.Run("ambient wins without override", func(t *testing.T) {
		s := FromEnviron([]string{"API_KEY=from-env"})
		written := s.Merge(map[string]string{"API_KEY": "from-file", "OTHER": "x"}, ".env", false)

		assert.Equal(t, []string{"OTHER"}, written)
		value, _ := s.Lookup("API_KEY")
		assert.Equal(t, "from-env", value)
		assert.Equal(t, SourceProcess, s.Source("API_KEY"))
		assert.Equal(t, ".env", s.Source("OTHER"))
	})

	t.Run("override replaces ambient", func(t *testing.T) {
		s := FromEnviron([]string{"API_KEY=from-env"})
		s.Merge(map[string]string{"API_KEY": "from-file"}, ".env", true)

		value, _ := s.Lookup("API_KEY")
		assert.Equal(t, "from-file", value)
		assert.Equal(t, ".env", s.Source("API_KEY"))
	})

	t.Run("repeated merge is stable", func(t *testing.T) {
		s := New()
		vars := map[string]string{"API_KEY": "sk-test-123"}
		s.Merge(vars, ".env", false)
		s.Merge(vars, ".env", false)

		value, ok := s.Lookup("API_KEY")
		require.True(t, ok)
		assert.Equal(t, "sk-test-123", value)
		assert.Equal(t, 1, s.Len())
	})
}
