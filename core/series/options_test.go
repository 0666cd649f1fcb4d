package series

import (
	"reflect"
	"testing"

	"cloudcost/core/types"
)

func TestDistinct(t *testing.T) {
	tests := []struct {
		name string
		rows []types.Row
		key  string
		want []string
	}{
		{
			name: "deduplicates and sorts",
			rows: []types.Row{
				{"project_id": "A"},
				{"project_id": "B"},
				{"project_id": "A"},
			},
			key:  "project_id",
			want: []string{"A", "B"},
		},
		{
			name: "insensitive to row order",
			rows: []types.Row{
				{"project_id": "B"},
				{"project_id": "A"},
				{"project_id": "B"},
			},
			key:  "project_id",
			want: []string{"A", "B"},
		},
		{
			name: "trims and drops empties",
			rows: []types.Row{
				{"project_id": "  A  "},
				{"project_id": ""},
				{"project_id": "   "},
				{"project_id": "C"},
			},
			key:  "project_id",
			want: []string{"A", "C"},
		},
		{
			name: "missing key yields empty set",
			rows: []types.Row{{"other": "x"}},
			key:  "project_id",
			want: []string{},
		},
		{
			name: "no rows",
			rows: nil,
			key:  "project_id",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distinct(tt.rows, tt.key)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Distinct = %v, want %v", got, tt.want)
			}
		})
	}
}
