package slug

import (
	"strings"
	"unicode"
)

const maxRunes = 60

// Make lowercases input and joins its letter and digit runs with dashes,
// e.g. "Sunday Stout #2" gives "sunday-stout-2".
func Make(input string) string {
	var b strings.Builder
	pendingDash := false
	n := 0
	for _, r := range strings.ToLower(input) {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			pendingDash = b.Len() > 0
			continue
		}
		if n >= maxRunes {
			break
		}
		if pendingDash {
			b.WriteByte('-')
			pendingDash = false
		}
		b.WriteRune(r)
		n++
	}
	if b.Len() == 0 {
		return "brew"
	}
	return b.String()
}
