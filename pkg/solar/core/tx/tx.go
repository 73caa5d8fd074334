// Package tx defines the unit-of-work abstraction the solarsink stores write through.
// A Session is owned by the caller and handed to every persistence operation; stores
// never open or close sessions themselves.
package tx

import "context"

// Operations accepted by Executor.ExecuteUpdate.
const (
	OpCreate = "CREATE"
	OpUpdate = "UPDATE"
	OpDelete = "DELETE"
)

// Executor is the set of data operations available inside a session.
type Executor interface {
	// ExecuteUpdate performs a write (OpCreate, OpUpdate, OpDelete) on model.
	// model is a pointer to an entity or a pointer to a slice of entities.
	// query holds equality conditions for UPDATE and DELETE, combined with AND.
	ExecuteUpdate(ctx context.Context, model interface{}, operation string, tableName string, query map[string]interface{}) (rowsAffected int64, err error)

	// ExecuteQuery loads rows matching query into target.
	// orderBy and limit are ignored when empty or <= 0.
	// A query that matches nothing leaves target untouched and returns nil;
	// callers that need a single row check the result themselves.
	ExecuteQuery(ctx context.Context, target interface{}, query map[string]interface{}, orderBy string, limit int) error
}

// Session is an open unit of work.
// The first operation after creation, Commit or Rollback begins a new transaction.
type Session interface {
	Executor

	// Commit persists everything written since the last Commit or Rollback.
	// Committing an idle session is a no-op.
	Commit() error
	// Rollback discards everything written since the last Commit or Rollback.
	Rollback() error
	// Close rolls back pending work and releases the session. Further use fails with ErrSessionClosed.
	Close() error
}

// SessionFactory opens sessions against a configured data store.
type SessionFactory interface {
	NewSession(ctx context.Context) (Session, error)
}
