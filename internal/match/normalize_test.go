package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"whitespace only", "   \t  ", ""},
		{"lowercases", "Moka Sidamo", "moka sidamo"},
		{"strips diacritics", "Café Noisette", "cafe noisette"},
		{"mixed accents", "Thé à la Menthe", "the a la menthe"},
		{"collapses whitespace", "  cafe   noisette  ", "cafe noisette"},
		{"tabs and newlines", "cafe\t\nnoisette", "cafe noisette"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"Café Noisette", "  MOKA   Sidamo ", "déjà-vu", ""}

	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"two tokens", "cafe noisette", []string{"cafe", "noisette"}},
		{"filters short tokens", "thé à la menthe", []string{"the", "la", "menthe"}},
		{"normalizes before splitting", "  Café   NOISETTE ", []string{"cafe", "noisette"}},
		{"single char falls back to whole query", "a", []string{"a"}},
		{"empty falls back to empty token", "", []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.input))
		})
	}
}

func TestTokenize_AlwaysAtLeastOneToken(t *testing.T) {
	for _, in := range []string{"", " ", "x", "x y z", "cafe noisette"} {
		assert.NotEmpty(t, Tokenize(in), "input %q", in)
	}
}
