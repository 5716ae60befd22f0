package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Barclays Bank PLC", "barclays bank plc"},
		{"strips punctuation", "Tesco, Stores (Holdings) Ltd.", "tesco stores holdings ltd"},
		{"collapses whitespace", "  HSBC   Bank\t\tPlc  ", "hsbc bank plc"},
		{"keeps digits and underscores", "3M_UK Ltd", "3m_uk ltd"},
		{"ampersand removed", "Marks & Spencer", "marks spencer"},
		{"empty", "", ""},
		{"only punctuation", "!!! ---", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Barclays Bank PLC",
		"  A.B.C.  Consulting,  Ltd ",
		"NHS   Foundation Trust",
		"",
		"123 & Co!",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "normalize must be idempotent for %q", in)
	}
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"barclays", "bank", "plc"}, Tokens("barclays bank plc"))
	// Words of length <= 2 are not indexable.
	assert.Equal(t, []string{"bank"}, Tokens("uk it bank of"))
	assert.Empty(t, Tokens("a an of"))
	assert.Empty(t, Tokens(""))
}

func TestWordSet(t *testing.T) {
	set := WordSet("hsbc bank hsbc")
	assert.Len(t, set, 2)
	assert.True(t, set["hsbc"])
	assert.True(t, set["bank"])
	assert.Empty(t, WordSet(""))
}
