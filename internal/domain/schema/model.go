// Package schema holds the per-module user-defined row schema: columns and
// the status values usable by status-typed columns.
package schema

// ColumnType tells how an item field under the column is interpreted.
type ColumnType string

const (
	// ColumnText holds a free string.
	ColumnText ColumnType = "text"
	// ColumnStatus holds a status id or the empty string.
	ColumnStatus ColumnType = "status"
)

// Valid reports whether the column type is one of the known kinds.
func (t ColumnType) Valid() bool {
	return t == ColumnText || t == ColumnStatus
}

// Column is a user-defined schema slot.
type Column struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Type       ColumnType `json:"type"`
	IsDefault  bool       `json:"is_default,omitempty"`
	OwnerScope string     `json:"owner_scope,omitempty"`
}

// Status is a named, colored enum value scoped to a module.
type Status struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	OwnerScope string `json:"owner_scope,omitempty"`
}

// Unselected is what a stale or empty status reference resolves to at read
// time. Deleting a status never rewrites the items that referenced it.
var Unselected = Status{Name: "Não selecionado"}

// ColumnPatch carries partial column updates; nil fields are left untouched.
type ColumnPatch struct {
	Name *string
	Type *ColumnType
}

// StatusPatch carries partial status updates; nil fields are left untouched.
type StatusPatch struct {
	Name  *string
	Color *string
}
