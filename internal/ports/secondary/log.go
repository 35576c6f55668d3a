package secondary

import "context"

// LogWriter defines the interface for writing audit log entries.
// Implementations extract the actor from context.
type LogWriter interface {
	// LogCreate logs a create operation for an entity.
	LogCreate(ctx context.Context, entityType, entityID string) error

	// LogUpdate logs an update operation for an entity field.
	// fieldName, oldValue, newValue describe what changed.
	LogUpdate(ctx context.Context, entityType, entityID, fieldName, oldValue, newValue string) error

	// LogDelete logs a delete operation for an entity.
	LogDelete(ctx context.Context, entityType, entityID string) error
}

// AuditLogRepository defines the secondary port for audit log persistence.
type AuditLogRepository interface {
	// Create persists a new log entry.
	Create(ctx context.Context, entry *AuditLogRecord) error

	// List retrieves entries matching the given filters, newest first.
	List(ctx context.Context, filters AuditLogFilters) ([]*AuditLogRecord, error)

	// GetNextID returns the next available log ID.
	GetNextID(ctx context.Context) (string, error)
}

// AuditLogRecord represents one audit entry as stored in persistence.
type AuditLogRecord struct {
	ID         string
	ActorID    string
	EntityType string // plan, stage, task, rating
	EntityID   string
	Action     string // create, update, delete
	FieldName  string
	OldValue   string
	NewValue   string
	CreatedAt  string
}

// AuditLogFilters contains filter options for querying audit entries.
type AuditLogFilters struct {
	EntityType string
	EntityID   string
	ActorID    string
	Limit      int
}
