// Package idgen provides short, URL-safe unique ID generation backed by nanoid.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// CardPrefix is prepended to every generated card ID.
var CardPrefix = "tk-"

// BoardPrefix is prepended to every generated board ID.
var BoardPrefix = "brd-"

// Alphabet defines the character set used for the random portion of the ID.
var Alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Length is the number of random characters generated (excluding the prefix).
var Length = 10

// NewCardID returns a new unique card ID.
func NewCardID() (string, error) {
	return GenerateWithPrefix(CardPrefix)
}

// NewBoardID returns a new unique board ID.
func NewBoardID() (string, error) {
	return GenerateWithPrefix(BoardPrefix)
}

// GenerateWithPrefix returns a new unique ID with the given prefix.
func GenerateWithPrefix(prefix string) (string, error) {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return prefix + id, nil
}
