package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildRowColumnOrder(t *testing.T) {
	row := buildRow("2026-02-10T09:00:00Z", "NL-A742", "SIP/Mandates", "Tuesday, Feb 10 at 2:00 PM IST", "tentative", "advisor_agent")

	assert.Equal(t, []interface{}{
		"2026-02-10T09:00:00Z",
		"NL-A742",
		"SIP/Mandates",
		"Tuesday, Feb 10 at 2:00 PM IST",
		"tentative",
		"advisor_agent",
	}, row)
}

func TestMatchRow(t *testing.T) {
	column := [][]interface{}{
		{"booking code"}, // header
		{"NL-A742"},
		{},
		{"NL-B123"},
		{"nl-a742"}, // later duplicate wins
	}

	tests := []struct {
		name string
		code string
		want int
	}{
		{"exact", "NL-B123", 3},
		{"case and separators ignored", "nl b123", 3},
		{"last duplicate wins", "NL-A742", 4},
		{"missing", "NL-Z999", -1},
		{"empty code", "", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchRow(column, tt.code))
		})
	}
}

func TestMatchRowEmptyColumn(t *testing.T) {
	assert.Equal(t, -1, matchRow(nil, "NL-A742"))
}
