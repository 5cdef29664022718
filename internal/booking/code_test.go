package booking

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateMatchesPattern(t *testing.T) {
	gen := NewCodeGenerator("NL")
	pattern := regexp.MustCompile(`^NL-[A-Z][0-9]{3}$`)
	for i := 0; i < 200; i++ {
		code := gen.Generate()
		assert.Regexp(t, pattern, code)
	}
}

func TestGenerateCustomPrefix(t *testing.T) {
	gen := NewCodeGenerator("AV")
	assert.Regexp(t, regexp.MustCompile(`^AV-[A-Z][0-9]{3}$`), gen.Generate())
}

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"NL-P760", "NLP760"},
		{"NLP 760", "NLP760"},
		{"nl-p760", "NLP760"},
		{"  NL - P 760  ", "NLP760"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeCode(tt.in), "input %q", tt.in)
	}
}
