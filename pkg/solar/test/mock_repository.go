package test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/tigerroll/solarsink/pkg/solar/core/domain/model"
	"github.com/tigerroll/solarsink/pkg/solar/core/domain/repository"
	tx "github.com/tigerroll/solarsink/pkg/solar/core/tx"
)

// MockSiteDirectory is a mock implementation of repository.SiteDirectory.
type MockSiteDirectory struct {
	mock.Mock
}

// FindByClientSiteName mocks repository.SiteDirectory.FindByClientSiteName.
func (m *MockSiteDirectory) FindByClientSiteName(ctx context.Context, s tx.Session, clientName, clientSiteName string) (*model.Site, error) {
	args := m.Called(ctx, s, clientName, clientSiteName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Site), args.Error(1)
}

// Create mocks repository.SiteDirectory.Create.
func (m *MockSiteDirectory) Create(ctx context.Context, s tx.Session, params model.SiteCreateParams) (*model.Site, error) {
	args := m.Called(ctx, s, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Site), args.Error(1)
}

// MockGenerationStore is a mock implementation of repository.GenerationStore.
type MockGenerationStore struct {
	mock.Mock
}

// Insert mocks repository.GenerationStore.Insert.
func (m *MockGenerationStore) Insert(ctx context.Context, s tx.Session, records []model.GenerationRecord) error {
	args := m.Called(ctx, s, records)
	return args.Error(0)
}

// MockForecastStore is a mock implementation of repository.ForecastStore.
type MockForecastStore struct {
	mock.Mock
}

// Insert mocks repository.ForecastStore.Insert.
func (m *MockForecastStore) Insert(ctx context.Context, s tx.Session, records []model.ForecastRecord, meta model.ForecastRunMeta, modelName, modelVersion string) error {
	args := m.Called(ctx, s, records, meta, modelName, modelVersion)
	return args.Error(0)
}

// MockForecastObjectStore is a mock implementation of repository.ForecastObjectStore.
type MockForecastObjectStore struct {
	mock.Mock
}

// Save mocks repository.ForecastObjectStore.Save.
func (m *MockForecastObjectStore) Save(ctx context.Context, s tx.Session, forecasts []*model.Forecast) error {
	args := m.Called(ctx, s, forecasts)
	return args.Error(0)
}

var (
	_ repository.SiteDirectory       = (*MockSiteDirectory)(nil)
	_ repository.GenerationStore     = (*MockGenerationStore)(nil)
	_ repository.ForecastStore       = (*MockForecastStore)(nil)
	_ repository.ForecastObjectStore = (*MockForecastObjectStore)(nil)
)
