package mcp

import (
	"context"
	"encoding/base64"
	"fmt"
	"sort"
	"time"

	"github.com/agencyops/backoffice/internal/domain/attachment"
	"github.com/agencyops/backoffice/internal/domain/board"
	"github.com/agencyops/backoffice/internal/domain/collection"
	"github.com/agencyops/backoffice/internal/domain/schema"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type okResult struct {
	OK bool `json:"ok"`
}

var ok = okResult{OK: true}

// ---- grouped module tools ----

type moduleInfo struct {
	Name       string `json:"name"`
	LabelField string `json:"label_field"`
}

type listModulesInput struct{}

type listModulesOutput struct {
	Modules     []moduleInfo `json:"modules"`
	BoardModule string       `json:"board_module,omitempty"`
}

type getModuleInput struct {
	Module string `json:"module" jsonschema:"module name, e.g. sites"`
}

type moduleView struct {
	Module     string             `json:"module"`
	LabelField string             `json:"label_field"`
	Groups     []collection.Group `json:"groups"`
	Columns    []schema.Column    `json:"columns"`
	Statuses   []schema.Status    `json:"statuses"`
}

type createGroupInput struct {
	Module string `json:"module"`
	Name   string `json:"name"`
}

type updateGroupInput struct {
	Module   string  `json:"module"`
	ID       string  `json:"id"`
	Name     *string `json:"name,omitempty"`
	Color    *string `json:"color,omitempty"`
	Expanded *bool   `json:"expanded,omitempty"`
}

type deleteGroupInput struct {
	Module string `json:"module"`
	ID     string `json:"id"`
}

type duplicateGroupInput struct {
	Module   string `json:"module"`
	SourceID string `json:"source_id"`
	Name     string `json:"name" jsonschema:"name of the duplicated group"`
}

type addItemInput struct {
	Module  string                           `json:"module"`
	GroupID string                           `json:"group_id"`
	Label   string                           `json:"label"`
	Notes   string                           `json:"notes,omitempty"`
	Fields  map[string]collection.FieldValue `json:"fields,omitempty" jsonschema:"dynamic fields keyed by column id"`
}

type updateItemInput struct {
	Module      string                           `json:"module"`
	ID          string                           `json:"id"`
	Label       *string                          `json:"label,omitempty"`
	Notes       *string                          `json:"notes,omitempty"`
	Fields      map[string]collection.FieldValue `json:"fields,omitempty"`
	ClearFields []string                         `json:"clear_fields,omitempty" jsonschema:"column ids whose fields are removed"`
}

type deleteItemInput struct {
	Module string `json:"module"`
	ID     string `json:"id"`
}

type attachFileInput struct {
	Module        string `json:"module"`
	ItemID        string `json:"item_id"`
	Name          string `json:"name"`
	MIMEType      string `json:"mime_type,omitempty"`
	ContentBase64 string `json:"content_base64"`
}

type reloadModuleInput struct {
	Module string `json:"module"`
}

// ---- schema tools ----

type addColumnInput struct {
	Module string `json:"module"`
	Name   string `json:"name"`
	Type   string `json:"type" jsonschema:"text or status"`
}

type updateColumnInput struct {
	Module string  `json:"module"`
	ID     string  `json:"id"`
	Name   *string `json:"name,omitempty"`
	Type   *string `json:"type,omitempty"`
}

type deleteColumnInput struct {
	Module string `json:"module"`
	ID     string `json:"id"`
}

type addStatusInput struct {
	Module string `json:"module"`
	Name   string `json:"name"`
	Color  string `json:"color,omitempty"`
}

type updateStatusInput struct {
	Module string  `json:"module"`
	ID     string  `json:"id"`
	Name   *string `json:"name,omitempty"`
	Color  *string `json:"color,omitempty"`
}

type deleteStatusInput struct {
	Module string `json:"module"`
	ID     string `json:"id"`
}

// ---- board tools ----

type getBoardInput struct{}

type boardView struct {
	Module  string         `json:"module"`
	Columns []board.Column `json:"columns"`
}

type addBoardColumnInput struct {
	Title string `json:"title"`
	Color string `json:"color,omitempty"`
}

type updateBoardColumnInput struct {
	ID    string  `json:"id"`
	Title *string `json:"title,omitempty"`
	Color *string `json:"color,omitempty"`
}

type boardColumnIDInput struct {
	ID string `json:"id"`
}

type reorderBoardColumnInput struct {
	ID        string `json:"id"`
	Direction string `json:"direction" jsonschema:"up or down"`
}

type addTaskInput struct {
	ColumnID    string   `json:"column_id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Priority    string   `json:"priority,omitempty" jsonschema:"low, medium, high or urgent"`
	Assignee    string   `json:"assignee,omitempty"`
	DueDate     string   `json:"due_date,omitempty" jsonschema:"RFC 3339 timestamp"`
	Tags        []string `json:"tags,omitempty"`
}

type updateTaskInput struct {
	ID           string    `json:"id"`
	Title        *string   `json:"title,omitempty"`
	Description  *string   `json:"description,omitempty"`
	Priority     *string   `json:"priority,omitempty"`
	Assignee     *string   `json:"assignee,omitempty"`
	DueDate      *string   `json:"due_date,omitempty" jsonschema:"RFC 3339 timestamp"`
	ClearDueDate bool      `json:"clear_due_date,omitempty"`
	Tags         *[]string `json:"tags,omitempty"`
}

type taskIDInput struct {
	ID string `json:"id"`
}

type reorderTaskInput struct {
	ID        string `json:"id"`
	ColumnID  string `json:"column_id"`
	Direction string `json:"direction" jsonschema:"up or down"`
}

type moveTaskInput struct {
	ID           string `json:"id"`
	FromColumnID string `json:"from_column_id"`
	ToColumnID   string `json:"to_column_id"`
	DestIndex    int    `json:"dest_index"`
}

func registerTools(server *sdkmcp.Server, svcs Services) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_modules",
		Description: "List the configured module screens and the board module",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in listModulesInput) (*sdkmcp.CallToolResult, listModulesOutput, error) {
		out := listModulesOutput{}
		for name, store := range svcs.Collections {
			out.Modules = append(out.Modules, moduleInfo{Name: name, LabelField: store.LabelField()})
		}
		sort.Slice(out.Modules, func(a, b int) bool { return out.Modules[a].Name < out.Modules[b].Name })
		if svcs.Board != nil {
			out.BoardModule = svcs.Board.Module()
		}
		return nil, out, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_module",
		Description: "Get a module's full group/item tree plus its columns and statuses",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in getModuleInput) (*sdkmcp.CallToolResult, moduleView, error) {
		view, err := svcs.viewModule(in.Module)
		if err != nil {
			return nil, moduleView{}, MapError(err)
		}
		return nil, view, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "reload_module",
		Description: "Rebuild a module's tree and schema from the remote rows",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in reloadModuleInput) (*sdkmcp.CallToolResult, moduleView, error) {
		store, err := svcs.store(in.Module)
		if err != nil {
			return nil, moduleView{}, MapError(err)
		}
		reg, err := svcs.registry(in.Module)
		if err != nil {
			return nil, moduleView{}, MapError(err)
		}
		if err := reg.Load(ctx); err != nil {
			return nil, moduleView{}, MapError(err)
		}
		if err := store.Reload(ctx); err != nil {
			return nil, moduleView{}, MapError(err)
		}
		view, err := svcs.viewModule(in.Module)
		if err != nil {
			return nil, moduleView{}, MapError(err)
		}
		return nil, view, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_group",
		Description: "Create a new month group in a module",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in createGroupInput) (*sdkmcp.CallToolResult, collection.Group, error) {
		store, err := svcs.store(in.Module)
		if err != nil {
			return nil, collection.Group{}, MapError(err)
		}
		group, err := store.CreateGroup(ctx, in.Name)
		if err != nil {
			return nil, collection.Group{}, MapError(err)
		}
		return nil, group, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_group",
		Description: "Rename, recolor or collapse/expand a group",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in updateGroupInput) (*sdkmcp.CallToolResult, collection.Group, error) {
		store, err := svcs.store(in.Module)
		if err != nil {
			return nil, collection.Group{}, MapError(err)
		}
		group, err := store.UpdateGroup(ctx, in.ID, collection.GroupPatch{
			Name:     in.Name,
			Color:    in.Color,
			Expanded: in.Expanded,
		})
		if err != nil {
			return nil, collection.Group{}, MapError(err)
		}
		return nil, group, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_group",
		Description: "Delete a group and every item inside it",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in deleteGroupInput) (*sdkmcp.CallToolResult, okResult, error) {
		store, err := svcs.store(in.Module)
		if err != nil {
			return nil, okResult{}, MapError(err)
		}
		if err := store.DeleteGroup(ctx, in.ID); err != nil {
			return nil, okResult{}, MapError(err)
		}
		return nil, ok, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "duplicate_group",
		Description: "Deep-copy a group under a new name, blanking the module's reset-on-duplicate fields",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in duplicateGroupInput) (*sdkmcp.CallToolResult, collection.Group, error) {
		store, err := svcs.store(in.Module)
		if err != nil {
			return nil, collection.Group{}, MapError(err)
		}
		group, err := store.DuplicateGroup(ctx, in.SourceID, in.Name)
		if err != nil {
			return nil, collection.Group{}, MapError(err)
		}
		return nil, group, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "add_item",
		Description: "Add a client row to a group; the label must be unique across the module",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in addItemInput) (*sdkmcp.CallToolResult, collection.Item, error) {
		store, err := svcs.store(in.Module)
		if err != nil {
			return nil, collection.Item{}, MapError(err)
		}
		item, err := store.AddItem(ctx, in.GroupID, collection.Item{
			Label:  in.Label,
			Notes:  in.Notes,
			Fields: in.Fields,
		})
		if err != nil {
			return nil, collection.Item{}, MapError(err)
		}
		return nil, item, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_item",
		Description: "Update an item's label, notes or dynamic fields",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in updateItemInput) (*sdkmcp.CallToolResult, collection.Item, error) {
		store, err := svcs.store(in.Module)
		if err != nil {
			return nil, collection.Item{}, MapError(err)
		}
		item, err := store.UpdateItem(ctx, in.ID, collection.ItemPatch{
			Label:       in.Label,
			Notes:       in.Notes,
			Fields:      in.Fields,
			ClearFields: in.ClearFields,
		})
		if err != nil {
			return nil, collection.Item{}, MapError(err)
		}
		return nil, item, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_item",
		Description: "Delete an item by id",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in deleteItemInput) (*sdkmcp.CallToolResult, okResult, error) {
		store, err := svcs.store(in.Module)
		if err != nil {
			return nil, okResult{}, MapError(err)
		}
		if err := store.DeleteItem(ctx, in.ID); err != nil {
			return nil, okResult{}, MapError(err)
		}
		return nil, ok, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "attach_file",
		Description: "Attach a file to an item; content is transferred base64-encoded",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in attachFileInput) (*sdkmcp.CallToolResult, collection.Item, error) {
		store, err := svcs.store(in.Module)
		if err != nil {
			return nil, collection.Item{}, MapError(err)
		}
		payload, err := base64.StdEncoding.DecodeString(in.ContentBase64)
		if err != nil {
			return nil, collection.Item{}, &APIError{Code: "INVALID_INPUT", Message: fmt.Sprintf("content_base64: %v", err)}
		}
		item, err := store.Attach(ctx, in.ItemID, attachment.Encode(in.Name, in.MIMEType, payload))
		if err != nil {
			return nil, collection.Item{}, MapError(err)
		}
		return nil, item, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "add_column",
		Description: "Define a new text or status column for a module",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in addColumnInput) (*sdkmcp.CallToolResult, schema.Column, error) {
		reg, err := svcs.registry(in.Module)
		if err != nil {
			return nil, schema.Column{}, MapError(err)
		}
		col, err := reg.AddColumn(ctx, in.Name, schema.ColumnType(in.Type))
		if err != nil {
			return nil, schema.Column{}, MapError(err)
		}
		return nil, col, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_column",
		Description: "Rename or retype a column",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in updateColumnInput) (*sdkmcp.CallToolResult, schema.Column, error) {
		reg, err := svcs.registry(in.Module)
		if err != nil {
			return nil, schema.Column{}, MapError(err)
		}
		patch := schema.ColumnPatch{Name: in.Name}
		if in.Type != nil {
			typ := schema.ColumnType(*in.Type)
			patch.Type = &typ
		}
		col, err := reg.UpdateColumn(ctx, in.ID, patch)
		if err != nil {
			return nil, schema.Column{}, MapError(err)
		}
		return nil, col, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_column",
		Description: "Delete a column and strip its field from every item of the module",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in deleteColumnInput) (*sdkmcp.CallToolResult, okResult, error) {
		reg, err := svcs.registry(in.Module)
		if err != nil {
			return nil, okResult{}, MapError(err)
		}
		if err := reg.DeleteColumn(ctx, in.ID); err != nil {
			return nil, okResult{}, MapError(err)
		}
		return nil, ok, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "add_status",
		Description: "Define a new status value for a module's status columns",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in addStatusInput) (*sdkmcp.CallToolResult, schema.Status, error) {
		reg, err := svcs.registry(in.Module)
		if err != nil {
			return nil, schema.Status{}, MapError(err)
		}
		st, err := reg.AddStatus(ctx, in.Name, in.Color)
		if err != nil {
			return nil, schema.Status{}, MapError(err)
		}
		return nil, st, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_status",
		Description: "Rename or recolor a status value",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in updateStatusInput) (*sdkmcp.CallToolResult, schema.Status, error) {
		reg, err := svcs.registry(in.Module)
		if err != nil {
			return nil, schema.Status{}, MapError(err)
		}
		st, err := reg.UpdateStatus(ctx, in.ID, schema.StatusPatch{Name: in.Name, Color: in.Color})
		if err != nil {
			return nil, schema.Status{}, MapError(err)
		}
		return nil, st, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_status",
		Description: "Delete a status value; items still referencing it read back as unselected",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in deleteStatusInput) (*sdkmcp.CallToolResult, okResult, error) {
		reg, err := svcs.registry(in.Module)
		if err != nil {
			return nil, okResult{}, MapError(err)
		}
		if err := reg.DeleteStatus(ctx, in.ID); err != nil {
			return nil, okResult{}, MapError(err)
		}
		return nil, ok, nil
	})

	if svcs.Board == nil {
		return
	}

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_board",
		Description: "Get the task board's columns and tasks",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in getBoardInput) (*sdkmcp.CallToolResult, boardView, error) {
		return nil, boardView{Module: svcs.Board.Module(), Columns: svcs.Board.Columns()}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "add_board_column",
		Description: "Add a column to the task board",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in addBoardColumnInput) (*sdkmcp.CallToolResult, board.Column, error) {
		col, err := svcs.Board.AddColumn(ctx, in.Title, in.Color)
		if err != nil {
			return nil, board.Column{}, MapError(err)
		}
		return nil, col, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_board_column",
		Description: "Rename or recolor a board column",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in updateBoardColumnInput) (*sdkmcp.CallToolResult, board.Column, error) {
		col, err := svcs.Board.UpdateColumn(ctx, in.ID, board.ColumnPatch{Title: in.Title, Color: in.Color})
		if err != nil {
			return nil, board.Column{}, MapError(err)
		}
		return nil, col, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_board_column",
		Description: "Delete a board column and every task inside it",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in boardColumnIDInput) (*sdkmcp.CallToolResult, okResult, error) {
		if err := svcs.Board.DeleteColumn(ctx, in.ID); err != nil {
			return nil, okResult{}, MapError(err)
		}
		return nil, ok, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "reorder_board_column",
		Description: "Swap a board column with its neighbor; moving past either end does nothing",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in reorderBoardColumnInput) (*sdkmcp.CallToolResult, okResult, error) {
		if err := svcs.Board.ReorderColumn(ctx, in.ID, board.Direction(in.Direction)); err != nil {
			return nil, okResult{}, MapError(err)
		}
		return nil, ok, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "add_task",
		Description: "Add a task to a board column",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in addTaskInput) (*sdkmcp.CallToolResult, board.Task, error) {
		draft := board.Task{
			Title:       in.Title,
			Description: in.Description,
			Priority:    board.Priority(in.Priority),
			Assignee:    in.Assignee,
			Tags:        in.Tags,
		}
		if in.DueDate != "" {
			due, err := time.Parse(time.RFC3339, in.DueDate)
			if err != nil {
				return nil, board.Task{}, &APIError{Code: "INVALID_INPUT", Message: fmt.Sprintf("due_date: %v", err)}
			}
			draft.DueDate = &due
		}
		task, err := svcs.Board.AddTask(ctx, in.ColumnID, draft)
		if err != nil {
			return nil, board.Task{}, MapError(err)
		}
		return nil, task, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_task",
		Description: "Update a task's fields",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in updateTaskInput) (*sdkmcp.CallToolResult, board.Task, error) {
		patch := board.TaskPatch{
			Title:       in.Title,
			Description: in.Description,
			Assignee:    in.Assignee,
			Tags:        in.Tags,
		}
		if in.Priority != nil {
			priority := board.Priority(*in.Priority)
			patch.Priority = &priority
		}
		if in.ClearDueDate {
			var due *time.Time
			patch.DueDate = &due
		} else if in.DueDate != nil {
			due, err := time.Parse(time.RFC3339, *in.DueDate)
			if err != nil {
				return nil, board.Task{}, &APIError{Code: "INVALID_INPUT", Message: fmt.Sprintf("due_date: %v", err)}
			}
			ptr := &due
			patch.DueDate = &ptr
		}
		task, err := svcs.Board.UpdateTask(ctx, in.ID, patch)
		if err != nil {
			return nil, board.Task{}, MapError(err)
		}
		return nil, task, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_task",
		Description: "Delete a task from its owning column",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in taskIDInput) (*sdkmcp.CallToolResult, okResult, error) {
		if err := svcs.Board.DeleteTask(ctx, in.ID); err != nil {
			return nil, okResult{}, MapError(err)
		}
		return nil, ok, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "reorder_task",
		Description: "Swap a task with its neighbor inside a column; moving past either end does nothing",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in reorderTaskInput) (*sdkmcp.CallToolResult, okResult, error) {
		if err := svcs.Board.ReorderTask(ctx, in.ID, in.ColumnID, board.Direction(in.Direction)); err != nil {
			return nil, okResult{}, MapError(err)
		}
		return nil, ok, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "move_task",
		Description: "Move a task to another column at an index, clamped to the column length",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in moveTaskInput) (*sdkmcp.CallToolResult, okResult, error) {
		if err := svcs.Board.MoveTask(ctx, in.ID, in.FromColumnID, in.ToColumnID, in.DestIndex); err != nil {
			return nil, okResult{}, MapError(err)
		}
		return nil, ok, nil
	})
}

func (s Services) viewModule(module string) (moduleView, error) {
	store, err := s.store(module)
	if err != nil {
		return moduleView{}, err
	}
	reg, err := s.registry(module)
	if err != nil {
		return moduleView{}, err
	}
	return moduleView{
		Module:     module,
		LabelField: store.LabelField(),
		Groups:     store.Groups(),
		Columns:    reg.Columns(),
		Statuses:   reg.Statuses(),
	}, nil
}
