package primary

import "context"

// LogService defines the primary port for reading the audit log.
type LogService interface {
	// ListLogs retrieves audit entries, newest first.
	ListLogs(ctx context.Context, filters LogFilters) ([]*LogEntry, error)
}

// LogFilters contains filter options for listing audit entries.
type LogFilters struct {
	EntityType string
	EntityID   string
	ActorID    string
	Limit      int
}

// LogEntry represents an audit entry at the port boundary.
type LogEntry struct {
	ID         string `json:"id"`
	ActorID    string `json:"actor_id"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	Action     string `json:"action"`
	FieldName  string `json:"field_name,omitempty"`
	OldValue   string `json:"old_value,omitempty"`
	NewValue   string `json:"new_value,omitempty"`
	CreatedAt  string `json:"created_at"`
}
