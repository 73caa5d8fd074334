// Package test holds testify mocks shared by solarsink package tests.
package test

import (
	"context"

	"github.com/stretchr/testify/mock"

	tx "github.com/tigerroll/solarsink/pkg/solar/core/tx"
)

// MockSession is a mock implementation of tx.Session.
type MockSession struct {
	mock.Mock
}

// ExecuteUpdate mocks tx.Executor.ExecuteUpdate.
func (m *MockSession) ExecuteUpdate(ctx context.Context, model interface{}, operation string, tableName string, query map[string]interface{}) (int64, error) {
	args := m.Called(ctx, model, operation, tableName, query)
	return args.Get(0).(int64), args.Error(1)
}

// ExecuteQuery mocks tx.Executor.ExecuteQuery.
func (m *MockSession) ExecuteQuery(ctx context.Context, target interface{}, query map[string]interface{}, orderBy string, limit int) error {
	args := m.Called(ctx, target, query, orderBy, limit)
	return args.Error(0)
}

// Commit mocks tx.Session.Commit.
func (m *MockSession) Commit() error {
	args := m.Called()
	return args.Error(0)
}

// Rollback mocks tx.Session.Rollback.
func (m *MockSession) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// Close mocks tx.Session.Close.
func (m *MockSession) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockSessionFactory is a mock implementation of tx.SessionFactory.
type MockSessionFactory struct {
	mock.Mock
}

// NewSession mocks tx.SessionFactory.NewSession.
func (m *MockSessionFactory) NewSession(ctx context.Context) (tx.Session, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(tx.Session), args.Error(1)
}

var (
	_ tx.Session        = (*MockSession)(nil)
	_ tx.SessionFactory = (*MockSessionFactory)(nil)
)
