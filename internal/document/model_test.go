package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		tables  []Table
		wantErr bool
	}{
		{"empty", nil, false},
		{"distinct ids", []Table{{ID: "a"}, {ID: "b"}}, false},
		{"missing id", []Table{{ID: "a"}, {Name: "nameless"}}, true},
		{"duplicate id", []Table{{ID: "a"}, {ID: "a"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&Diagram{Tables: tt.tables}).Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDiagram)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewEmptyDiagramEncodesTables(t *testing.T) {
	data, err := json.Marshal(NewEmptyDiagram("diag_a", "Billing"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"diag_a","name":"Billing","version":1,"tables":[]}`, string(data))
}

func TestNewTable(t *testing.T) {
	tbl := NewTable("tbl_a")
	assert.Equal(t, "Table Name", tbl.Name)
	require.Len(t, tbl.Columns, 1)
	assert.True(t, tbl.Columns[0].PrimaryKey)
	assert.False(t, tbl.Columns[0].Nullable)
}

func TestSampleDiagram(t *testing.T) {
	d := NewSampleDiagram("diag_s")
	require.NoError(t, d.Validate())
	require.Len(t, d.Tables, 1)
	assert.Equal(t, "ERG_MSR_DT", d.Tables[0].Name)
	assert.Len(t, d.Tables[0].Columns, 3)
	assert.NotEqual(t, NewSampleDiagram("diag_s").Tables[0].ID, d.Tables[0].ID, "table ids are fresh")
}
