package utils

import (
	"regexp"
	"strings"
)

// Flags follow the platform convention SEENAF{...}; legacy CTF{...} flags
// imported from older events are still accepted.
var flagPattern = regexp.MustCompile(`^(SEENAF|CTF)\{[A-Za-z0-9_\-]+\}$`)

// ValidFlagFormat reports whether a stored flag matches the expected shape.
// This only gates challenge creation; submitted values are compared verbatim.
func ValidFlagFormat(flag string) bool {
	return flagPattern.MatchString(strings.TrimSpace(flag))
}
