package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/krisalay/sheets-cache/types"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want []types.Record
	}{
		{
			name: "empty grid",
			rows: nil,
			want: []types.Record{},
		},
		{
			name: "header only",
			rows: [][]string{{"A", "B"}},
			want: []types.Record{},
		},
		{
			name: "blank header column is dropped",
			rows: [][]string{
				{"Name", "", "Email"},
				{"Ana", "x", "ana@x.com"},
			},
			want: []types.Record{{"Name": "Ana", "Email": "ana@x.com"}},
		},
		{
			name: "whitespace header column is dropped",
			rows: [][]string{
				{"Name", "   ", "Email"},
				{"Ana", "x", "ana@x.com"},
			},
			want: []types.Record{{"Name": "Ana", "Email": "ana@x.com"}},
		},
		{
			name: "short row is padded",
			rows: [][]string{
				{"A", "B", "C"},
				{"1"},
			},
			want: []types.Record{{"A": "1", "B": "", "C": ""}},
		},
		{
			name: "blank row is dropped",
			rows: [][]string{
				{"A", "B", "C"},
				{"", "  ", ""},
				{"1", "2", "3"},
			},
			want: []types.Record{{"A": "1", "B": "2", "C": "3"}},
		},
		{
			name: "empty row is dropped",
			rows: [][]string{
				{"A"},
				{},
			},
			want: []types.Record{},
		},
		{
			name: "value only under blank header counts as blank",
			rows: [][]string{
				{"A", ""},
				{"", "orphan"},
			},
			want: []types.Record{},
		},
		{
			name: "extra cells beyond headers are ignored",
			rows: [][]string{
				{"A"},
				{"1", "2", "3"},
			},
			want: []types.Record{{"A": "1"}},
		},
		{
			name: "order follows rows",
			rows: [][]string{
				{"N"},
				{"first"},
				{"second"},
				{"third"},
			},
			want: []types.Record{{"N": "first"}, {"N": "second"}, {"N": "third"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.rows))
		})
	}
}

func TestNormalizeKeepsCellsVerbatim(t *testing.T) {
	rows := [][]string{
		{"Monto", "Nota"},
		{"  00150 ", "\t"},
	}

	got := Normalize(rows)

	assert.Equal(t, []types.Record{{"Monto": "  00150 ", "Nota": "\t"}}, got)
}
