package domain

import (
	"errors"
	"strings"
)

// Submission errors. Messages are shown to callers as-is.
var (
	ErrUnauthorized = errors.New("Unauthorized")
	ErrInvalidWords = errors.New("games need between 2 and 5 words")
)

// Game storage errors
var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
	ErrStaleGame    = errors.New("game changed while updating")
)

var ErrNotAdmin = errors.New("Only admin can update games")

type WordPair struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (p WordPair) String() string {
	return p.From + "-" + p.To
}

// LinkedPairsError rejects a submission whose adjacent words are one hop apart.
type LinkedPairsError struct {
	Pairs []WordPair
}

func (e *LinkedPairsError) Error() string {
	names := make([]string, len(e.Pairs))
	for i, p := range e.Pairs {
		names[i] = p.String()
	}
	return "Can't create, word pairs directly linked: " + strings.Join(names, ", ")
}
