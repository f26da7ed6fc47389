// Package board implements the Kanban task module: ordered columns of
// ordered tasks sharing the grouped modules' snapshot and reconcile contract,
// keyed by column instead of group.
package board

import (
	"time"

	"github.com/agencyops/backoffice/internal/domain/attachment"
)

// Priority classifies a task's urgency.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Valid reports whether the priority is one of the known levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Direction selects the neighbor a reorder swaps with.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Task is one card on the board. Ids are unique across the whole module
// because tasks move between columns without changing identity.
type Task struct {
	ID          string                  `json:"id"`
	Title       string                  `json:"title"`
	Description string                  `json:"description,omitempty"`
	Priority    Priority                `json:"priority"`
	Assignee    string                  `json:"assignee,omitempty"`
	DueDate     *time.Time              `json:"due_date,omitempty"`
	Tags        []string                `json:"tags,omitempty"`
	Attachments []attachment.Attachment `json:"attachments,omitempty"`
}

func (t Task) isPlaceholder() bool {
	return t.ID == "" && t.Title == ""
}

func (t Task) clone() Task {
	out := t
	if t.DueDate != nil {
		due := *t.DueDate
		out.DueDate = &due
	}
	if t.Tags != nil {
		out.Tags = append([]string(nil), t.Tags...)
	}
	if t.Attachments != nil {
		out.Attachments = append([]attachment.Attachment(nil), t.Attachments...)
	}
	return out
}

// Column is an ordered, colored task bucket. Order values always form a
// dense 0-based permutation of the column list.
type Column struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Color string `json:"color"`
	Order int    `json:"order"`
	Tasks []Task `json:"tasks"`
}

func (c Column) clone() Column {
	out := c
	out.Tasks = make([]Task, len(c.Tasks))
	for i, t := range c.Tasks {
		out.Tasks[i] = t.clone()
	}
	return out
}

// ColumnPatch carries partial column updates; nil fields are left untouched.
type ColumnPatch struct {
	Title *string
	Color *string
}

// TaskPatch carries partial task updates; nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Priority    *Priority
	Assignee    *string
	DueDate     **time.Time
	Tags        *[]string
	Attachments *[]attachment.Attachment
}

// DefaultColumns seeds a fresh board the way the back office expects it.
var DefaultColumns = []struct {
	Title string
	Color string
}{
	{Title: "A Fazer", Color: "red"},
	{Title: "Em Andamento", Color: "yellow"},
	{Title: "Concluído", Color: "green"},
}
