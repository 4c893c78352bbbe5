package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `scriptdesk administers the scripting add-on of an issue tracker: event listeners, scheduled tasks, registry scripts and REST scripts.

Sections:
- listeners: scripts fired by tracker events. Conditions reference event type ids and project ids.
- scheduled: scripts run on a cron schedule, optionally over a JQL result.
- registry: reusable condition, validator and function scripts grouped in directories.
- rest: scripts served as custom REST endpoints, named by their last path segment.

Workflow:
1) Call list_items for a section. Reference labels map project, event type and directory ids to names.
2) Use get_item before update_listener or update_scheduled_task; updates replace every field.
3) delete_item and run_scheduled_task need confirm=true. Ask the user before setting it.
4) get_executions shows recent runs of any item and how many failed.
5) If a tool reports NOT_READY, call reload.

Docs:
- scriptdesk://docs/forms
- scriptdesk://docs/errors
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "scriptdesk://docs/forms",
		Name:        "docs_forms",
		Title:       "Listener, task and REST script forms",
		Description: "Required fields and validation rules for create and update tools.",
		Content: `# Forms

## Listener

- name, scriptBody: required.
- condition.type: ISSUE or CLASS_NAME.
  - ISSUE needs at least one id in condition.typeIds (event types). condition.projectIds limits the projects; empty means all.
  - CLASS_NAME needs condition.className and optionally condition.pluginKey.
- comment: optional change note stored with the revision.

## Scheduled task

- name, scheduleExpression (cron), userKey: required.
- type: BASIC_SCRIPT, ISSUE_JQL_SCRIPT, DOCUMENT_ISSUE_JQL_SCRIPT or ISSUE_JQL_TRANSITION.
- issueJql: required for the three JQL types.
- issueWorkflowActionId: required for ISSUE_JQL_TRANSITION; transitionOptions may skip conditions, validators or permissions.
- scriptBody: required except for ISSUE_JQL_TRANSITION.
- enabled: whether the schedule fires.

## REST script

- name: required; letters, digits, '-' and '_' only. It becomes the endpoint path segment.
- methods: one or more of GET, POST, PUT, DELETE, each at most once.
- groups: optional user groups allowed to call the endpoint; empty means any logged-in user.
- scriptBody: required.

Names are unique per section. A taken name is rejected with UPSTREAM_REJECTED.
`,
	},
	{
		URI:         "scriptdesk://docs/errors",
		Name:        "docs_errors",
		Title:       "Error codes",
		Description: "Tool error codes and how to recover.",
		Content: `# Error codes

- CONFIRMATION_REQUIRED: repeat with confirm=true once the user agreed.
- NOT_READY: the section has not loaded; call reload.
- UNKNOWN_SECTION: use listeners, scheduled, registry or rest.
- ITEM_NOT_FOUND: the id is not in the section; call list_items or reload.
- INVALID_INPUT: the form failed local validation; see scriptdesk://docs/forms.
- UPSTREAM_REJECTED: the add-on refused the request, usually a taken name or a deleted item.
- UPSTREAM_UNAVAILABLE: the add-on could not be reached; nothing changed locally.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
