package resources

import (
	"context"
	"encoding/json"
	"time"

	"github.com/goliatone/go-cms-admin/internal/datagrid"
)

const auditDateLayout = "2006-01-02"

// AuditEntry is one recorded administrative action. The audit view is
// read-only.
type AuditEntry struct {
	ID         string         `json:"id"`
	Actor      string         `json:"actor"`
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	ResourceID string         `json:"resourceId"`
	OccurredAt time.Time      `json:"occurredAt"`
	Details    map[string]any `json:"details,omitempty"`
}

// NewAuditEngine builds the read-only engine behind the Audit view. Besides
// the declared fields, the draft accepts "from" and "to" dates (YYYY-MM-DD)
// bounding OccurredAt inclusively.
func NewAuditEngine(_ context.Context, deps Deps, opts ...datagrid.Option) (*datagrid.Engine[AuditEntry], error) {
	return build(deps, definition[AuditEntry]{
		resource: ResourceAudit,
		id:       func(a AuditEntry) string { return a.ID },
		project: func(a AuditEntry) datagrid.Form {
			details := ""
			if len(a.Details) > 0 {
				if raw, err := json.Marshal(a.Details); err == nil {
					details = string(raw)
				}
			}
			return datagrid.Form{
				"actor":      a.Actor,
				"action":     a.Action,
				"resource":   a.Resource,
				"resourceId": a.ResourceID,
				"occurredAt": a.OccurredAt.Format(time.RFC3339),
				"details":    details,
			}
		},
		defaults: func() datagrid.Form { return datagrid.Form{} },
		fields: []datagrid.FilterField[AuditEntry]{
			textField("actor", func(a AuditEntry) string { return a.Actor }),
			{Name: "action", Kind: datagrid.FieldExact, Value: func(a AuditEntry) any { return a.Action }},
			{Name: "resource", Kind: datagrid.FieldExact, Value: func(a AuditEntry) any { return a.Resource }},
			textField("resourceId", func(a AuditEntry) string { return a.ResourceID }),
		},
		predicates: []datagrid.Predicate[AuditEntry]{auditRangePredicate},
		readOnly:   true,
	}, opts...)
}

func auditRangePredicate(entry AuditEntry, draft datagrid.SearchDraft) bool {
	if from, err := time.Parse(auditDateLayout, draft["from"]); err == nil {
		if entry.OccurredAt.Before(from) {
			return false
		}
	}
	if to, err := time.Parse(auditDateLayout, draft["to"]); err == nil {
		if !entry.OccurredAt.Before(to.AddDate(0, 0, 1)) {
			return false
		}
	}
	return true
}

// AuditColumns renders an audit listing.
func AuditColumns() []Column[AuditEntry] {
	return []Column[AuditEntry]{
		{Title: "When", Width: 20, Value: func(a AuditEntry) string { return a.OccurredAt.Format("2006-01-02 15:04:05") }},
		{Title: "Actor", Width: 16, Value: func(a AuditEntry) string { return a.Actor }},
		{Title: "Action", Width: 10, Value: func(a AuditEntry) string { return a.Action }},
		{Title: "Resource", Width: 20, Value: func(a AuditEntry) string { return a.Resource }},
		{Title: "Resource ID", Width: 12, Value: func(a AuditEntry) string { return a.ResourceID }},
	}
}
