package filtering

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusweb/content-server/internal/record"
)

func TestDistinctValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		records  []record.Record
		field    string
		order    OptionOrder
		expected []string
	}{
		{
			name: "years most recent first without empties",
			records: []record.Record{
				{"year": "2022"}, {"year": "2023"}, {"year": "2022"}, {"year": ""}, {"year": nil},
			},
			field:    "year",
			order:    OrderNumericDesc,
			expected: []string{"2023", "2022"},
		},
		{
			name: "lexical categories",
			records: []record.Record{
				{"category": "Sports"}, {"category": "Arts"}, {}, {"category": "Academics"}, {"category": "Arts"},
			},
			field:    "category",
			order:    OrderLexical,
			expected: []string{"Academics", "Arts", "Sports"},
		},
		{
			name: "numeric desc puts non-numbers last",
			records: []record.Record{
				{"year": json.Number("2019")}, {"year": "Alumni"}, {"year": json.Number("2024")},
			},
			field:    "year",
			order:    OrderNumericDesc,
			expected: []string{"2024", "2019", "Alumni"},
		},
		{
			name:     "no records",
			records:  nil,
			field:    "year",
			order:    OrderLexical,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, DistinctValues(tt.records, tt.field, tt.order))
		})
	}
}

func TestParseOptionOrder(t *testing.T) {
	t.Parallel()

	order, err := ParseOptionOrder("")
	require.NoError(t, err)
	assert.Equal(t, OrderLexical, order)

	order, err = ParseOptionOrder("Numeric-Desc")
	require.NoError(t, err)
	assert.Equal(t, OrderNumericDesc, order)

	_, err = ParseOptionOrder("random")
	assert.Error(t, err)
}
