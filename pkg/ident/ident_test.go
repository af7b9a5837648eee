package ident

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewShape(t *testing.T) {
	id, err := New()
	require.NoError(t, err)
	require.Len(t, id, Length)
	for _, r := range id {
		require.True(t, strings.ContainsRune(Alphabet, r), "unexpected rune %q in %s", r, id)
	}
}

func TestNewIndependentDraws(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id, err := New()
		require.NoError(t, err)
		_, dup := seen[id]
		require.False(t, dup, "duplicate identifier %s", id)
		seen[id] = struct{}{}
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "generated", input: MustNew(), want: true},
		{name: "too short", input: "abc123", want: false},
		{name: "bad rune", input: "AAAAAAAAAAAAAAA-", want: false},
		{name: "empty", input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Valid(tt.input))
		})
	}
}
