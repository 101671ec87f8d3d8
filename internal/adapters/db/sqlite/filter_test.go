package sqlite

import (
	"testing"

	"github.com/atvirokodosprendimai/campaignkeeper/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestFilterParse(t *testing.T) {
	tests := []struct {
		name   string
		schema filterSchema
		filter string
		clause string
		params []any
	}{
		{name: "empty", schema: campaignFilter, filter: "  "},
		{
			name: "string equality", schema: campaignFilter,
			filter: `status = "active"`,
			clause: "status = ?", params: []any{"active"},
		},
		{
			name: "conjunction", schema: characterFilter,
			filter: `character_type = "npc" AND hit_points > 10`,
			clause: "(character_type = ? AND hit_points > ?)", params: []any{"npc", int64(10)},
		},
		{
			name: "negation", schema: magicItemFilter,
			filter: `NOT rarity = "common"`,
			clause: "NOT rarity = ?", params: []any{"common"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cond, err := tt.schema.Parse(tt.filter)
			require.NoError(t, err)
			require.Equal(t, tt.clause, cond.Clause)
			require.Equal(t, tt.params, cond.Params)
		})
	}
}

func TestFilterRejectsUnknownFieldsAndSyntax(t *testing.T) {
	for _, filter := range []string{`hit_points > 3`, `title = `, `title = "x" AND`} {
		_, err := campaignFilter.Parse(filter)
		require.Error(t, err, filter)
		v, ok := domain.AsValidation(err)
		require.True(t, ok, filter)
		require.Equal(t, "filter", v.Issues[0].Field)
	}
}
