package vision

import (
	"errors"
	"fmt"
)

// Labels is the ordered class table the classifier was trained against.
// Index order matters: position i corresponds to score i of the model output,
// and the names must match the disease catalog rows exactly.
var Labels = []string{
	"Cellulitis",
	"Impetigo",
	"Athlete Foot",
	"Nail Fungus",
	"Ringworm",
	"Cutaneous Larva Migrans",
	"Chickenpox",
	"Shingles",
}

// ErrVectorLength is returned when a score vector does not match the label table.
var ErrVectorLength = errors.New("vision: score vector length does not match label table")

// ResolveLabel maps a score vector to the label at its argmax index.
// On equal scores the lowest index wins.
func ResolveLabel(scores []float32) (string, error) {
	if len(scores) != len(Labels) {
		return "", fmt.Errorf("%w: got %d, want %d", ErrVectorLength, len(scores), len(Labels))
	}

	best := 0
	for i, s := range scores {
		if s > scores[best] {
			best = i
		}
	}
	return Labels[best], nil
}
