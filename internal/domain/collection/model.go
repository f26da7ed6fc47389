// Package collection implements the grouped client registry of one module:
// an in-memory tree of groups and items, snapshotted to flat remote rows and
// rebuilt from them on load.
package collection

import "github.com/agencyops/backoffice/internal/domain/attachment"

// FieldKind tags the value held by a dynamic item field.
type FieldKind string

const (
	// FieldText is a free string.
	FieldText FieldKind = "text"
	// FieldStatus references a status id, or the empty string when unset.
	FieldStatus FieldKind = "status"
)

// FieldValue is a tagged dynamic field value, keyed by column id on the item.
type FieldValue struct {
	Kind     FieldKind `json:"kind"`
	Text     string    `json:"text,omitempty"`
	StatusID string    `json:"status_id,omitempty"`
}

// TextValue builds a text field value.
func TextValue(s string) FieldValue {
	return FieldValue{Kind: FieldText, Text: s}
}

// StatusValue builds a status reference field value.
func StatusValue(id string) FieldValue {
	return FieldValue{Kind: FieldStatus, StatusID: id}
}

// Item is one client row: a fixed label plus schema-defined dynamic fields.
// An item with empty id and label is the placeholder that keeps an empty
// group discoverable in the row store.
type Item struct {
	ID          string                   `json:"id"`
	Label       string                   `json:"label"`
	Notes       string                   `json:"notes,omitempty"`
	Fields      map[string]FieldValue    `json:"fields,omitempty"`
	Attachments []attachment.Attachment  `json:"attachments,omitempty"`
}

func (it Item) isPlaceholder() bool {
	return it.ID == "" && it.Label == ""
}

func (it Item) clone() Item {
	out := it
	if it.Fields != nil {
		out.Fields = make(map[string]FieldValue, len(it.Fields))
		for k, v := range it.Fields {
			out.Fields[k] = v
		}
	}
	if it.Attachments != nil {
		out.Attachments = make([]attachment.Attachment, len(it.Attachments))
		copy(out.Attachments, it.Attachments)
	}
	return out
}

// Group is a named, colored, collapsible bucket of items ("month").
type Group struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	Expanded bool   `json:"is_expanded"`
	Items    []Item `json:"items"`
}

func (g Group) clone() Group {
	out := g
	out.Items = make([]Item, len(g.Items))
	for i, it := range g.Items {
		out.Items[i] = it.clone()
	}
	return out
}

// GroupPatch carries partial group updates; nil fields are left untouched.
type GroupPatch struct {
	Name     *string
	Color    *string
	Expanded *bool
}

// ItemPatch carries partial item updates. Fields are merged key by key;
// ClearFields removes keys; a non-nil Attachments replaces the whole list.
type ItemPatch struct {
	Label       *string
	Notes       *string
	Fields      map[string]FieldValue
	ClearFields []string
	Attachments *[]attachment.Attachment
}

// groupPalette supplies the default color token of freshly created groups.
var groupPalette = []string{
	"blue", "green", "orange", "purple", "red", "teal", "pink", "yellow",
}
