package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/scriptdesk/internal/adapter"
	"github.com/rpggio/scriptdesk/internal/collection"
	"github.com/rpggio/scriptdesk/internal/desk"
	"github.com/rpggio/scriptdesk/internal/domain/execution"
)

type tools struct {
	desk   *desk.Desk
	logger *slog.Logger
}

func registerTools(server *sdkmcp.Server, t *tools) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_items",
		Description: "List the items of a section, optionally filtered by name. Includes watch state and reference labels.",
	}, t.listItems)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_item",
		Description: "Get one item of a section by id",
	}, t.getItem)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_listener",
		Description: "Create an event listener",
	}, t.createListener)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_listener",
		Description: "Replace the fields of an event listener",
	}, t.updateListener)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_scheduled_task",
		Description: "Create a scheduled task",
	}, t.createTask)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_scheduled_task",
		Description: "Replace the fields of a scheduled task",
	}, t.updateTask)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_rest_script",
		Description: "Create a script served as a custom REST endpoint",
	}, t.createRestScript)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_rest_script",
		Description: "Replace the fields of a REST script",
	}, t.updateRestScript)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_executions",
		Description: "Get the recorded runs of an item, newest first, with a failure count",
	}, t.getExecutions)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_item",
		Description: "Delete an item of a section. Requires confirm=true.",
	}, t.deleteItem)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "watch_item",
		Description: "Start or stop watching an item",
	}, t.watchItem)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "run_scheduled_task",
		Description: "Start a scheduled task immediately. Requires confirm=true. Run results show up after reload.",
	}, t.runTask)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "set_scheduled_task_enabled",
		Description: "Enable or disable a scheduled task",
	}, t.setTaskEnabled)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "reload",
		Description: "Reload one section or every section from the server",
	}, t.reload)
}

func (t *tools) listItems(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListItemsParams) (*sdkmcp.CallToolResult, any, error) {
	var (
		resp ListItemsResponse
		err  error
	)
	switch in.Section {
	case desk.SectionListeners:
		resp, err = listSection(t.desk.Listeners, in.Query)
	case desk.SectionScheduled:
		resp, err = listSection(t.desk.Scheduled, in.Query)
	case desk.SectionRegistry:
		resp, err = listSection(t.desk.Registry, in.Query)
	case desk.SectionRest:
		resp, err = listSection(t.desk.Rest, in.Query)
	default:
		err = fmt.Errorf("%w: %q", desk.ErrUnknownSection, in.Section)
	}
	if err != nil {
		return nil, nil, MapError(err)
	}
	return jsonResult(resp)
}

func (t *tools) getItem(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetItemParams) (*sdkmcp.CallToolResult, any, error) {
	var (
		resp ItemResponse
		err  error
	)
	switch in.Section {
	case desk.SectionListeners:
		resp, err = getFromSection(t.desk.Listeners, in.ID)
	case desk.SectionScheduled:
		resp, err = getFromSection(t.desk.Scheduled, in.ID)
	case desk.SectionRegistry:
		resp, err = getFromSection(t.desk.Registry, in.ID)
	case desk.SectionRest:
		resp, err = getFromSection(t.desk.Rest, in.ID)
	default:
		err = fmt.Errorf("%w: %q", desk.ErrUnknownSection, in.Section)
	}
	if err != nil {
		return nil, nil, MapError(err)
	}
	return jsonResult(resp)
}

func (t *tools) createListener(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateListenerParams) (*sdkmcp.CallToolResult, any, error) {
	if err := in.Form.Validate(); err != nil {
		return nil, nil, MapError(err)
	}
	created, err := t.desk.Listeners.Create(ctx, in.Form)
	if err != nil {
		return nil, nil, MapError(err)
	}
	return jsonResult(ItemResponse{Section: desk.SectionListeners, Item: created})
}

func (t *tools) updateListener(ctx context.Context, _ *sdkmcp.CallToolRequest, in UpdateListenerParams) (*sdkmcp.CallToolResult, any, error) {
	if err := in.Form.Validate(); err != nil {
		return nil, nil, MapError(err)
	}
	updated, err := t.desk.Listeners.Update(ctx, in.ID, in.Form)
	if err != nil {
		return nil, nil, MapError(err)
	}
	return jsonResult(ItemResponse{
		Section:  desk.SectionListeners,
		Item:     updated,
		Watching: t.desk.Listeners.Store().Watching(updated.ID),
	})
}

func (t *tools) createTask(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateScheduledTaskParams) (*sdkmcp.CallToolResult, any, error) {
	if err := in.Form.Validate(); err != nil {
		return nil, nil, MapError(err)
	}
	created, err := t.desk.Scheduled.Create(ctx, in.Form)
	if err != nil {
		return nil, nil, MapError(err)
	}
	return jsonResult(ItemResponse{Section: desk.SectionScheduled, Item: created})
}

func (t *tools) updateTask(ctx context.Context, _ *sdkmcp.CallToolRequest, in UpdateScheduledTaskParams) (*sdkmcp.CallToolResult, any, error) {
	if err := in.Form.Validate(); err != nil {
		return nil, nil, MapError(err)
	}
	updated, err := t.desk.Scheduled.Update(ctx, in.ID, in.Form)
	if err != nil {
		return nil, nil, MapError(err)
	}
	return jsonResult(ItemResponse{
		Section:  desk.SectionScheduled,
		Item:     updated,
		Watching: t.desk.Scheduled.Store().Watching(updated.ID),
	})
}

func (t *tools) createRestScript(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateRestScriptParams) (*sdkmcp.CallToolResult, any, error) {
	if err := in.Form.Validate(); err != nil {
		return nil, nil, MapError(err)
	}
	created, err := t.desk.Rest.Create(ctx, in.Form)
	if err != nil {
		return nil, nil, MapError(err)
	}
	return jsonResult(ItemResponse{Section: desk.SectionRest, Item: created})
}

func (t *tools) updateRestScript(ctx context.Context, _ *sdkmcp.CallToolRequest, in UpdateRestScriptParams) (*sdkmcp.CallToolResult, any, error) {
	if err := in.Form.Validate(); err != nil {
		return nil, nil, MapError(err)
	}
	updated, err := t.desk.Rest.Update(ctx, in.ID, in.Form)
	if err != nil {
		return nil, nil, MapError(err)
	}
	return jsonResult(ItemResponse{
		Section:  desk.SectionRest,
		Item:     updated,
		Watching: t.desk.Rest.Store().Watching(updated.ID),
	})
}

func (t *tools) getExecutions(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetExecutionsParams) (*sdkmcp.CallToolResult, any, error) {
	runs, err := t.desk.History(ctx, in.Section, in.ID)
	if err != nil {
		return nil, nil, MapError(err)
	}
	if runs == nil {
		runs = []execution.Execution{}
	}
	slices.SortStableFunc(runs, func(a, b execution.Execution) int { return b.Date.Compare(a.Date) })
	if in.Limit > 0 && len(runs) > in.Limit {
		runs = runs[:in.Limit]
	}
	return jsonResult(ExecutionsResponse{
		Section:    in.Section,
		ID:         in.ID,
		Summary:    execution.Summarize(runs),
		Executions: runs,
	})
}

func (t *tools) deleteItem(ctx context.Context, _ *sdkmcp.CallToolRequest, in DeleteItemParams) (*sdkmcp.CallToolResult, any, error) {
	ctx = adapter.WithConfirmation(ctx, in.Confirm)
	if err := t.desk.Delete(ctx, in.Section, in.ID); err != nil {
		return nil, nil, MapError(err)
	}
	return textResult(fmt.Sprintf("deleted %s #%d", in.Section, in.ID))
}

func (t *tools) watchItem(ctx context.Context, _ *sdkmcp.CallToolRequest, in WatchItemParams) (*sdkmcp.CallToolResult, any, error) {
	if err := t.desk.Watch(ctx, in.Section, in.ID, in.Watching); err != nil {
		return nil, nil, MapError(err)
	}
	if in.Watching {
		return textResult(fmt.Sprintf("watching %s #%d", in.Section, in.ID))
	}
	return textResult(fmt.Sprintf("stopped watching %s #%d", in.Section, in.ID))
}

func (t *tools) runTask(ctx context.Context, _ *sdkmcp.CallToolRequest, in RunScheduledTaskParams) (*sdkmcp.CallToolResult, any, error) {
	ctx = adapter.WithConfirmation(ctx, in.Confirm)
	if err := t.desk.Runner.RunNow(ctx, in.ID); err != nil {
		return nil, nil, MapError(err)
	}
	return textResult(fmt.Sprintf("started scheduled task #%d", in.ID))
}

func (t *tools) setTaskEnabled(ctx context.Context, _ *sdkmcp.CallToolRequest, in SetTaskEnabledParams) (*sdkmcp.CallToolResult, any, error) {
	if err := t.desk.Runner.SetEnabled(ctx, in.ID, in.Enabled); err != nil {
		return nil, nil, MapError(err)
	}
	task, ok := t.desk.Scheduled.Store().Get(in.ID)
	if !ok {
		return textResult(fmt.Sprintf("scheduled task #%d enabled=%t", in.ID, in.Enabled))
	}
	return jsonResult(ItemResponse{Section: desk.SectionScheduled, Item: task, Watching: t.desk.Scheduled.Store().Watching(in.ID)})
}

func (t *tools) reload(ctx context.Context, _ *sdkmcp.CallToolRequest, in ReloadParams) (*sdkmcp.CallToolResult, any, error) {
	sections := desk.Sections
	if in.Section != "" {
		if !slices.Contains(desk.Sections, in.Section) {
			return nil, nil, MapError(fmt.Errorf("%w: %q", desk.ErrUnknownSection, in.Section))
		}
		sections = []string{in.Section}
	}

	failures := make([]error, len(sections))
	var wg sync.WaitGroup
	for i, name := range sections {
		wg.Go(func() {
			failures[i] = t.desk.LoadSection(ctx, name)
		})
	}
	wg.Wait()

	var resp ReloadResponse
	for i, name := range sections {
		st, _ := t.desk.Status(name)
		status := SectionStatus{Section: name, Phase: st.Phase.String(), Items: st.Items}
		if err := failures[i]; err != nil {
			t.logger.Warn("reload failed", "section", name, "error", err)
			status.Error = MapError(err).Error()
		}
		resp.Sections = append(resp.Sections, status)
	}
	return jsonResult(resp)
}

func listSection[T collection.Entity, F any](s *adapter.Session[T, F], query string) (ListItemsResponse, error) {
	if s.Phase() != adapter.PhaseReady {
		return ListItemsResponse{}, adapter.ErrNotReady
	}
	store := s.Store()
	snap := store.SnapshotFor(query)
	watching := []int64{}
	for id, on := range snap.Watches {
		if on {
			watching = append(watching, id)
		}
	}
	slices.Sort(watching)
	return ListItemsResponse{
		Section:   s.Section(),
		Filter:    snap.Filter,
		Total:     len(snap.Items),
		Items:     snap.Visible,
		Watching:  watching,
		Reference: store.Reference().Snapshot(),
	}, nil
}

func getFromSection[T collection.Entity, F any](s *adapter.Session[T, F], id int64) (ItemResponse, error) {
	if s.Phase() != adapter.PhaseReady {
		return ItemResponse{}, adapter.ErrNotReady
	}
	item, ok := s.Store().Get(id)
	if !ok {
		return ItemResponse{}, fmt.Errorf("%w: %s #%d", desk.ErrItemNotFound, s.Section(), id)
	}
	return ItemResponse{Section: s.Section(), Item: item, Watching: s.Store().Watching(id)}, nil
}

func jsonResult(v any) (*sdkmcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encode result: %w", err)
	}
	return textResult(string(data))
}

func textResult(text string) (*sdkmcp.CallToolResult, any, error) {
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: text}},
	}, nil, nil
}
