package document

import "github.com/erdcanvas/erdcanvas/backend-go/internal/typeid"

// NewSampleDiagram returns a diagram with one measurement table, handy for
// the playground and for rendering checks. Comments mix Hangul and Latin
// text so wide glyph measurement is exercised.
func NewSampleDiagram(id string) *Diagram {
	return &Diagram{
		ID:      id,
		Name:    "Sample",
		Version: 1,
		Tables: []Table{
			{
				ID:      typeid.NewTableID(),
				Name:    "ERG_MSR_DT",
				Comment: "에너지 측정",
				X:       40,
				Y:       40,
				Columns: []Column{
					{PrimaryKey: true, Name: "ERG_MSR_DT_ID_ID", Type: "VARCHAR(45)", DefaultValue: "P000000", Comment: "시스템식별ID"},
					{PrimaryKey: true, Name: "ERG_MSR_DT", Type: "VARCHAR", DefaultValue: "P000", Comment: "측정일시"},
					{Name: "MSR_VALUE", Type: "DECIMAL(12,3)", Nullable: true, Comment: "측정값"},
				},
			},
		},
	}
}
