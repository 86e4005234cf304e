package document

import (
	"errors"
	"fmt"
)

var ErrInvalidDiagram = errors.New("invalid diagram")

// Diagram is the plain, serializable form of an ERD canvas. It carries no
// engine state; loading it into a scene and reading it back round-trips.
type Diagram struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Version int     `json:"version"`
	Tables  []Table `json:"tables"`
}

// Table is one entity box. X and Y are logical canvas coordinates of its
// top-left corner.
type Table struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Comment string   `json:"comment"`
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	Columns []Column `json:"columns"`
}

// Column is one row of a table.
type Column struct {
	// PrimaryKey marks the column as part of the table's key.
	PrimaryKey bool `json:"primaryKey"`
	// Name is the column identifier.
	Name string `json:"name"`
	// Type is the SQL type as typed by the user, e.g. VARCHAR(45).
	Type string `json:"type"`
	// DefaultValue is kept as text.
	DefaultValue string `json:"defaultValue"`
	// Nullable allows NULL values.
	Nullable bool `json:"nullable"`
	// Comment is free text.
	Comment string `json:"comment"`
}

// NewEmptyDiagram creates an empty diagram for a new record.
func NewEmptyDiagram(id, name string) *Diagram {
	return &Diagram{
		ID:      id,
		Name:    name,
		Version: 1,
		Tables:  []Table{},
	}
}

// NewTable creates a table with the default title and a single key column.
func NewTable(id string) Table {
	return Table{
		ID:      id,
		Name:    "Table Name",
		Comment: "Comment",
		Columns: []Column{
			{PrimaryKey: true, Name: "ID", Type: "BIGINT", Nullable: false, Comment: "identifier"},
		},
	}
}

// Validate checks the structure of a diagram received from a client.
func (d *Diagram) Validate() error {
	seen := make(map[string]bool, len(d.Tables))
	for i, t := range d.Tables {
		if t.ID == "" {
			return fmt.Errorf("%w: table %d has no id", ErrInvalidDiagram, i)
		}
		if seen[t.ID] {
			return fmt.Errorf("%w: duplicate table id %q", ErrInvalidDiagram, t.ID)
		}
		seen[t.ID] = true
	}
	return nil
}
