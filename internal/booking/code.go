package booking

import (
	"fmt"
	"math/rand/v2"
)

// CodeGenerator mints short human-speakable booking codes like "NL-A742":
// a configured prefix, one uppercase letter, and a three-digit number.
//
// Codes are not guaranteed unique; the ledger is the collision backstop.
type CodeGenerator struct {
	prefix string
}

// NewCodeGenerator creates a generator with the given prefix (e.g. "NL").
func NewCodeGenerator(prefix string) *CodeGenerator {
	return &CodeGenerator{prefix: prefix}
}

// Generate returns a fresh booking code.
func (g *CodeGenerator) Generate() string {
	letter := rune('A' + rand.IntN(26))
	number := 100 + rand.IntN(900)
	return fmt.Sprintf("%s-%c%d", g.prefix, letter, number)
}

// NormalizeCode strips separators and uppercases so spoken variants match:
// "NLP 760" and "nl-p760" both normalize to "NLP760".
func NormalizeCode(code string) string {
	out := make([]rune, 0, len(code))
	for _, r := range code {
		switch {
		case r >= 'a' && r <= 'z':
			out = append(out, r-('a'-'A'))
		case (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			out = append(out, r)
		}
	}
	return string(out)
}
