package orders

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// NumberPrefix is the fixed prefix of every order number.
const NumberPrefix = "EM-"

var numberRe = regexp.MustCompile(`^EM-[A-Z0-9]+$`)

// ParseNumber normalizes raw operator input into a canonical order number.
// Input is trimmed and uppercased before validation, so "em-ab12cd" and
// "EM-AB12CD" refer to the same order.
func ParseNumber(raw string) (string, error) {
	num := strings.ToUpper(strings.TrimSpace(raw))
	if !numberRe.MatchString(num) {
		return "", fmt.Errorf("invalid order number %q", raw)
	}
	return num, nil
}

// NewNumber generates a fresh order number. The suffix comes from a random
// UUID, truncated to keep numbers short enough to type by hand.
func NewNumber() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return NumberPrefix + strings.ToUpper(id[:8])
}
