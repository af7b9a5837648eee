package vision

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveLabel(t *testing.T) {
	tests := []struct {
		name   string
		scores []float32
		want   string
	}{
		{
			name:   "clear winner",
			scores: []float32{0.1, 0.05, 0.9, 0.2, 0.1, 0.05, 0.3, 0.1},
			want:   "Athlete Foot",
		},
		{
			name:   "first index",
			scores: []float32{0.99, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1},
			want:   "Cellulitis",
		},
		{
			name:   "last index",
			scores: []float32{0, 0, 0, 0, 0, 0, 0, 0.01},
			want:   "Shingles",
		},
		{
			name:   "tie resolves to lowest index",
			scores: []float32{0.2, 0.5, 0.5, 0.1, 0.5, 0.1, 0.1, 0.1},
			want:   "Impetigo",
		},
		{
			name:   "all equal picks first",
			scores: []float32{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5},
			want:   "Cellulitis",
		},
		{
			name:   "scores need not sum to one",
			scores: []float32{1, 2, 3, 4, 5, 6, 7, 8},
			want:   "Shingles",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveLabel(tt.scores)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestResolveLabelLengthGuard(t *testing.T) {
	for _, n := range []int{0, 1, 7, 9, 100} {
		_, err := ResolveLabel(make([]float32, n))
		require.ErrorIs(t, err, ErrVectorLength, "length %d", n)
	}
}

func TestLabelTableShape(t *testing.T) {
	require.Len(t, Labels, 8)
	seen := make(map[string]struct{})
	for _, l := range Labels {
		_, dup := seen[l]
		require.False(t, dup, "duplicate label %s", l)
		seen[l] = struct{}{}
	}
}
