package risk

import (
	"regexp"
	"strings"
)

var (
	borrowerIDPattern = regexp.MustCompile(`^B\d+$`)
	loanIDPattern     = regexp.MustCompile(`^L\d+$`)
)

// NormalizeID trims whitespace and uppercases an entity identifier so that
// "  b001 " and "B001" refer to the same row.
func NormalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// ValidBorrowerID reports whether id (after normalization) matches B<number>.
func ValidBorrowerID(id string) bool {
	return borrowerIDPattern.MatchString(NormalizeID(id))
}

// ValidLoanID reports whether id (after normalization) matches L<number>.
func ValidLoanID(id string) bool {
	return loanIDPattern.MatchString(NormalizeID(id))
}
