// Package ident mints the short random identifiers used for history records
// and archived image names.
package ident

import (
	"errors"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// Alphabet is the fixed 62-character set identifiers are drawn from.
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	// Length is the fixed identifier length. Uniqueness is probabilistic:
	// 62^16 keeps the collision odds negligible without a counter.
	Length = 16
)

// New returns a fresh identifier. Every call is an independent draw.
func New() (string, error) {
	return gonanoid.Generate(Alphabet, Length)
}

// Valid reports whether s has the exact shape of a generated identifier.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune(Alphabet, r) {
			return false
		}
	}
	return true
}

// MustNew is New for composition paths where a failed read from the OS
// entropy source is unrecoverable anyway.
func MustNew() string {
	id, err := New()
	if err != nil {
		panic(errors.Join(errors.New("ident: generate"), err))
	}
	return id
}
