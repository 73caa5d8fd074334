package gorm

import (
	"context"
	"fmt"
	"reflect"

	"gorm.io/gorm"

	tx "github.com/tigerroll/solarsink/pkg/solar/core/tx"
	"github.com/tigerroll/solarsink/pkg/solar/support/util/exception"
)

const sessionModule = "GormSession"

// TableNamer is implemented by entities that declare their table.
type TableNamer interface {
	TableName() string
}

// GormSession implements tx.Session on a *gorm.DB.
// A transaction is begun lazily on first use and after each Commit or Rollback.
// A GormSession must not be shared between goroutines.
type GormSession struct {
	db     *gorm.DB
	tx     *gorm.DB
	closed bool
}

// NewGormSession creates a session on db.
func NewGormSession(db *gorm.DB) *GormSession {
	return &GormSession{db: db}
}

var _ tx.Session = (*GormSession)(nil)

func (s *GormSession) current(ctx context.Context) (*gorm.DB, error) {
	if s.closed {
		return nil, tx.ErrSessionClosed
	}
	if s.tx == nil {
		t := s.db.WithContext(ctx).Begin()
		if t.Error != nil {
			return nil, exception.NewSolarError(sessionModule, "failed to begin transaction", t.Error)
		}
		s.tx = t
	}
	return s.tx.WithContext(ctx), nil
}

// InTransaction reports whether uncommitted work may be pending.
func (s *GormSession) InTransaction() bool {
	return s.tx != nil
}

// ExecuteUpdate implements tx.Executor.
func (s *GormSession) ExecuteUpdate(ctx context.Context, model interface{}, operation string, tableName string, query map[string]interface{}) (int64, error) {
	db, err := s.current(ctx)
	if err != nil {
		return 0, err
	}
	if tableName != "" {
		db = db.Table(tableName)
	}

	var result *gorm.DB
	switch operation {
	case tx.OpCreate:
		result = db.Create(model)
	case tx.OpUpdate:
		result = db.Model(model).Where(query).Updates(model)
	case tx.OpDelete:
		if len(query) > 0 {
			db = db.Where(query)
		}
		result = db.Delete(model)
	default:
		return 0, fmt.Errorf("unsupported update operation: %s", operation)
	}

	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ExecuteQuery implements tx.Executor.
func (s *GormSession) ExecuteQuery(ctx context.Context, target interface{}, query map[string]interface{}, orderBy string, limit int) error {
	db, err := s.current(ctx)
	if err != nil {
		return err
	}
	db = applyTableName(db, target)
	if len(query) > 0 {
		db = db.Where(query)
	}
	if orderBy != "" {
		db = db.Order(orderBy)
	}
	if limit > 0 {
		db = db.Limit(limit)
	}
	return db.Find(target).Error
}

// Commit implements tx.Session.
func (s *GormSession) Commit() error {
	if s.closed {
		return tx.ErrSessionClosed
	}
	if s.tx == nil {
		return nil
	}
	err := s.tx.Commit().Error
	s.tx = nil
	if err != nil {
		return exception.NewSolarError(sessionModule, "failed to commit transaction", err)
	}
	return nil
}

// Rollback implements tx.Session.
func (s *GormSession) Rollback() error {
	if s.closed {
		return tx.ErrSessionClosed
	}
	if s.tx == nil {
		return nil
	}
	err := s.tx.Rollback().Error
	s.tx = nil
	if err != nil {
		return exception.NewSolarError(sessionModule, "failed to roll back transaction", err)
	}
	return nil
}

// Close implements tx.Session.
func (s *GormSession) Close() error {
	if s.closed {
		return nil
	}
	err := s.Rollback()
	s.closed = true
	return err
}

// applyTableName scopes db to the table of target, which is an entity or a slice of entities.
func applyTableName(db *gorm.DB, target interface{}) *gorm.DB {
	if namer, ok := target.(TableNamer); ok {
		return db.Table(namer.TableName())
	}

	val := reflect.ValueOf(target)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if val.Kind() == reflect.Slice || val.Kind() == reflect.Array {
		elemType := val.Type().Elem()
		if elemType.Kind() == reflect.Ptr {
			elemType = elemType.Elem()
		}
		if namer, ok := reflect.New(elemType).Interface().(TableNamer); ok {
			return db.Table(namer.TableName())
		}
	}
	return db
}
