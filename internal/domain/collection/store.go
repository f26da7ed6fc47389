package collection

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/agencyops/backoffice/internal/domain/attachment"
	"github.com/agencyops/backoffice/internal/domain/schema"
	"github.com/agencyops/backoffice/internal/repository"
	"github.com/google/uuid"
)

// SchemaSource is the slice of the schema registry the store validates
// dynamic fields against.
type SchemaSource interface {
	Column(id string) (schema.Column, bool)
	Columns() []schema.Column
	HasStatus(id string) bool
}

// ResetRule lists what a group duplication blanks on the copied items.
// The rule is module-specific configuration, not a shared constant.
type ResetRule struct {
	Notes        bool
	Attachments  bool
	StatusFields bool
	Fields       []string
}

// Config parameterizes a store for one module.
type Config struct {
	Module     string
	LabelField string
	Reset      ResetRule
}

// Store holds the in-memory group/item tree of one module and keeps the
// remote row set matching it. All mutations run under one writer lock, so
// overlapping bursts serialize instead of silently dropping a snapshot.
type Store struct {
	cfg    Config
	rows   repository.RowRepository
	source SchemaSource
	logger *slog.Logger

	mu     sync.Mutex
	groups []Group
}

// NewStore creates a store for one module.
func NewStore(cfg Config, rows repository.RowRepository, source SchemaSource, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		cfg:    cfg,
		rows:   rows,
		source: source,
		logger: logger.With("module", cfg.Module),
	}
}

// Module returns the owning module name.
func (s *Store) Module() string {
	return s.cfg.Module
}

// LabelField returns the display name of the module's label column.
func (s *Store) LabelField() string {
	return s.cfg.LabelField
}

// Groups returns a deep copy of the current tree.
func (s *Store) Groups() []Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Group, len(s.groups))
	for i, g := range s.groups {
		out[i] = g.clone()
	}
	return out
}

// CreateGroup appends a new empty group and saves the snapshot.
func (s *Store) CreateGroup(ctx context.Context, name string) (Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Group{}, ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	group := Group{
		ID:       uuid.NewString(),
		Name:     name,
		Color:    groupPalette[len(s.groups)%len(groupPalette)],
		Expanded: true,
		Items:    []Item{},
	}
	s.groups = append(s.groups, group)
	if err := s.save(ctx); err != nil {
		return Group{}, err
	}
	return group.clone(), nil
}

// UpdateGroup applies a partial update to a group and saves the snapshot.
func (s *Store) UpdateGroup(ctx context.Context, id string, patch GroupPatch) (Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.groupIndex(id)
	if idx < 0 {
		return Group{}, ErrGroupNotFound
	}

	group := &s.groups[idx]
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return Group{}, ErrInvalidInput
		}
		group.Name = name
	}
	if patch.Color != nil {
		group.Color = *patch.Color
	}
	if patch.Expanded != nil {
		group.Expanded = *patch.Expanded
	}

	if err := s.save(ctx); err != nil {
		return Group{}, err
	}
	return group.clone(), nil
}

// DeleteGroup removes a group and every item inside it.
func (s *Store) DeleteGroup(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.groupIndex(id)
	if idx < 0 {
		return ErrGroupNotFound
	}
	s.groups = append(s.groups[:idx], s.groups[idx+1:]...)
	return s.save(ctx)
}

// DuplicateGroup deep-copies a group under a new name. Every copied item gets
// a fresh id and the module's reset rule blanks notes, attachments and
// configured fields on the copies.
func (s *Store) DuplicateGroup(ctx context.Context, sourceID, newName string) (Group, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return Group{}, ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.groupIndex(sourceID)
	if idx < 0 {
		return Group{}, ErrGroupNotFound
	}

	source := s.groups[idx]
	dup := Group{
		ID:       uuid.NewString(),
		Name:     newName,
		Color:    source.Color,
		Expanded: true,
		Items:    make([]Item, len(source.Items)),
	}
	for i, it := range source.Items {
		copied := it.clone()
		copied.ID = uuid.NewString()
		s.applyResetRule(&copied)
		dup.Items[i] = copied
	}

	s.groups = append(s.groups, dup)
	if err := s.save(ctx); err != nil {
		return Group{}, err
	}
	return dup.clone(), nil
}

// AddItem appends an item to a group. The label must be unique across the
// whole module, compared case-insensitively; the scan over every group is a
// deliberate module-level invariant, not an optimization miss.
func (s *Store) AddItem(ctx context.Context, groupID string, draft Item) (Item, error) {
	label := strings.TrimSpace(draft.Label)
	if label == "" {
		return Item{}, ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.groupIndex(groupID)
	if idx < 0 {
		return Item{}, ErrGroupNotFound
	}
	if s.labelTaken(label, "") {
		return Item{}, &DuplicateLabelError{Label: label}
	}
	if err := s.validateFields(draft.Fields); err != nil {
		return Item{}, err
	}

	item := draft.clone()
	item.ID = uuid.NewString()
	item.Label = label
	s.groups[idx].Items = append(s.groups[idx].Items, item)

	if err := s.save(ctx); err != nil {
		return Item{}, err
	}
	return item.clone(), nil
}

// UpdateItem applies a partial update to an item wherever it lives.
func (s *Store) UpdateItem(ctx context.Context, itemID string, patch ItemPatch) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	gi, ii := s.itemIndex(itemID)
	if gi < 0 {
		return Item{}, ErrItemNotFound
	}
	item := &s.groups[gi].Items[ii]

	if patch.Label != nil {
		label := strings.TrimSpace(*patch.Label)
		if label == "" {
			return Item{}, ErrInvalidInput
		}
		if s.labelTaken(label, itemID) {
			return Item{}, &DuplicateLabelError{Label: label}
		}
	}
	if err := s.validateFields(patch.Fields); err != nil {
		return Item{}, err
	}

	if patch.Label != nil {
		item.Label = strings.TrimSpace(*patch.Label)
	}
	if patch.Notes != nil {
		item.Notes = *patch.Notes
	}
	if len(patch.Fields) > 0 {
		if item.Fields == nil {
			item.Fields = make(map[string]FieldValue, len(patch.Fields))
		}
		for key, val := range patch.Fields {
			item.Fields[key] = val
		}
	}
	for _, key := range patch.ClearFields {
		delete(item.Fields, key)
	}
	if patch.Attachments != nil {
		item.Attachments = append([]attachment.Attachment(nil), *patch.Attachments...)
	}

	if err := s.save(ctx); err != nil {
		return Item{}, err
	}
	return item.clone(), nil
}

// Attach appends an encoded file to an item. Attachments belong to exactly
// one item; duplicating a group may blank them per the module's reset rule.
func (s *Store) Attach(ctx context.Context, itemID string, att attachment.Attachment) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	gi, ii := s.itemIndex(itemID)
	if gi < 0 {
		return Item{}, ErrItemNotFound
	}
	item := &s.groups[gi].Items[ii]
	item.Attachments = append(item.Attachments, att)

	if err := s.save(ctx); err != nil {
		return Item{}, err
	}
	return item.clone(), nil
}

// DeleteItem removes an item by id.
func (s *Store) DeleteItem(ctx context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	gi, ii := s.itemIndex(itemID)
	if gi < 0 {
		return ErrItemNotFound
	}
	items := s.groups[gi].Items
	s.groups[gi].Items = append(items[:ii], items[ii+1:]...)
	return s.save(ctx)
}

// StripField removes a column's field from every item and saves. Called by
// the schema registry when a column is deleted.
func (s *Store) StripField(ctx context.Context, columnID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for gi := range s.groups {
		for ii := range s.groups[gi].Items {
			if _, ok := s.groups[gi].Items[ii].Fields[columnID]; ok {
				delete(s.groups[gi].Items[ii].Fields, columnID)
				changed = true
			}
		}
	}
	if !changed {
		return nil
	}
	return s.save(ctx)
}

func (s *Store) applyResetRule(item *Item) {
	rule := s.cfg.Reset
	if rule.Notes {
		item.Notes = ""
	}
	if rule.Attachments {
		item.Attachments = nil
	}
	for key, val := range item.Fields {
		if rule.StatusFields && val.Kind == FieldStatus {
			delete(item.Fields, key)
			continue
		}
		for _, blank := range rule.Fields {
			if key == blank {
				delete(item.Fields, key)
				break
			}
		}
	}
}

func (s *Store) validateFields(fields map[string]FieldValue) error {
	for key, val := range fields {
		col, ok := s.source.Column(key)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownColumn, key)
		}
		switch col.Type {
		case schema.ColumnText:
			if val.Kind != FieldText {
				return fmt.Errorf("%w: column %q holds text", ErrFieldTypeMismatch, col.Name)
			}
		case schema.ColumnStatus:
			if val.Kind != FieldStatus {
				return fmt.Errorf("%w: column %q holds a status", ErrFieldTypeMismatch, col.Name)
			}
			if val.StatusID != "" && !s.source.HasStatus(val.StatusID) {
				return fmt.Errorf("%w: %s", ErrUnknownStatus, val.StatusID)
			}
		}
	}
	return nil
}

func (s *Store) labelTaken(label, excludeItemID string) bool {
	for _, g := range s.groups {
		for _, it := range g.Items {
			if it.ID != excludeItemID && strings.EqualFold(it.Label, label) {
				return true
			}
		}
	}
	return false
}

func (s *Store) groupIndex(id string) int {
	for i, g := range s.groups {
		if g.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) itemIndex(itemID string) (int, int) {
	for gi, g := range s.groups {
		for ii, it := range g.Items {
			if it.ID == itemID {
				return gi, ii
			}
		}
	}
	return -1, -1
}
