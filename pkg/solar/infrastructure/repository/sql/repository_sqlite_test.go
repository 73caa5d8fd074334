package sql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	gormadapter "github.com/tigerroll/solarsink/pkg/solar/adapter/database/gorm"
	"github.com/tigerroll/solarsink/pkg/solar/core/domain/model"
	"github.com/tigerroll/solarsink/pkg/solar/core/domain/repository"
	"github.com/tigerroll/solarsink/pkg/solar/support/util/clock"
)

var fixedNow = time.Date(2025, 6, 1, 12, 7, 0, 0, time.UTC)

func setupSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: gormadapter.NewGormLogger("silent")})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(Entities()...))
	return db
}

func countRows(t *testing.T, db *gorm.DB, entity interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(entity).Count(&n).Error)
	return n
}

func TestSQLSiteDirectory_FindMissing(t *testing.T) {
	db := setupSQLiteDB(t)
	s := gormadapter.NewGormSession(db)
	defer s.Close()

	dir := NewSQLSiteDirectory(clock.FixedClock{T: fixedNow})
	site, err := dir.FindByClientSiteName(context.Background(), s, "nl_national", "nl_national")

	assert.Nil(t, site)
	assert.True(t, errors.Is(err, repository.ErrSiteNotFound))
}

func TestSQLSiteDirectory_CreateThenFind(t *testing.T) {
	ctx := context.Background()
	db := setupSQLiteDB(t)
	s := gormadapter.NewGormSession(db)
	dir := NewSQLSiteDirectory(clock.FixedClock{T: fixedNow})

	created, err := dir.Create(ctx, s, model.SiteCreateParams{
		ClientSiteID:   1,
		ClientSiteName: "TenneT",
		Country:        "de",
		Latitude:       52.38,
		Longitude:      5.17,
		CapacityKW:     21_882_000,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.LocationUUID)
	require.NoError(t, s.Commit())

	found, err := dir.FindByClientSiteName(ctx, s, "TenneT", "TenneT")
	require.NoError(t, err)
	assert.Equal(t, created.LocationUUID, found.LocationUUID)
	assert.Equal(t, "de", found.Country)
	assert.Equal(t, 21_882_000.0, found.CapacityKW)
	assert.Equal(t, "", found.DNO)
	assert.Equal(t, 1, found.ClientSiteID)
	require.NoError(t, s.Close())

	assert.Equal(t, int64(1), countRows(t, db, &SiteEntity{}))
}

func TestSQLGenerationStore_Insert(t *testing.T) {
	ctx := context.Background()
	db := setupSQLiteDB(t)
	s := gormadapter.NewGormSession(db)
	store := NewSQLGenerationStore(clock.FixedClock{T: fixedNow})
	siteUUID := uuid.New()

	rows := []model.GenerationRecord{
		{PowerKW: 100, StartUTC: fixedNow, SiteUUID: siteUUID},
		{PowerKW: 110, StartUTC: fixedNow.Add(15 * time.Minute), SiteUUID: siteUUID},
	}
	require.NoError(t, store.Insert(ctx, s, rows))
	require.NoError(t, store.Insert(ctx, s, nil))
	require.NoError(t, s.Commit())

	var stored []GenerationEntity
	require.NoError(t, db.Order("start_utc").Find(&stored).Error)
	require.Len(t, stored, 2)
	assert.Equal(t, siteUUID, stored[0].SiteUUID)
	assert.Equal(t, 110.0, stored[1].GenerationPowerKW)
	assert.True(t, stored[1].StartUTC.Equal(fixedNow.Add(15*time.Minute)))
}

func TestSQLForecastStore_InsertCommitsAndReusesModel(t *testing.T) {
	ctx := context.Background()
	db := setupSQLiteDB(t)
	s := gormadapter.NewGormSession(db)
	store := NewSQLForecastStore(clock.FixedClock{T: fixedNow})
	siteUUID := uuid.New()
	issued := fixedNow.Truncate(15 * time.Minute)

	rows := []model.ForecastRecord{
		{ForecastPowerKW: 5, StartUTC: issued, EndUTC: issued.Add(15 * time.Minute), HorizonMinutes: 0},
		{ForecastPowerKW: 6, StartUTC: issued.Add(15 * time.Minute), EndUTC: issued.Add(30 * time.Minute), HorizonMinutes: 15},
	}
	meta := model.ForecastRunMeta{SiteUUID: siteUUID, TimestampUTC: issued, ForecastVersion: "1.0.0"}

	require.NoError(t, store.Insert(ctx, s, rows, meta, "nl-solar", "1.0.0"))
	require.NoError(t, store.Insert(ctx, s, rows[:1], meta, "nl-solar", "1.0.0"))
	// Insert commits, so the session holds no open transaction here.
	assert.False(t, s.InTransaction())

	assert.Equal(t, int64(1), countRows(t, db, &MLModelEntity{}))
	assert.Equal(t, int64(2), countRows(t, db, &ForecastEntity{}))
	assert.Equal(t, int64(3), countRows(t, db, &ForecastValueEntity{}))

	var run ForecastEntity
	require.NoError(t, db.First(&run).Error)
	assert.Equal(t, siteUUID, run.SiteUUID)
	assert.Equal(t, "1.0.0", run.ForecastVersion)
	assert.True(t, run.TimestampUTC.Equal(issued))
}

func TestSQLForecastObjectStore_Save(t *testing.T) {
	ctx := context.Background()
	db := setupSQLiteDB(t)
	s := gormadapter.NewGormSession(db)
	store := NewSQLForecastObjectStore()

	forecasts := []*model.Forecast{
		{LocationName: "nl_national", ModelName: "m", ModelVersion: "1", CreatedUTC: fixedNow,
			Values: []model.ForecastValue{{TargetTimeUTC: fixedNow, ExpectedPowerGenerationMW: 1.5}}},
		{LocationName: "nl_national", ModelName: "m", ModelVersion: "1", CreatedUTC: fixedNow, Historic: true},
	}
	require.NoError(t, store.Save(ctx, s, forecasts))

	assert.Equal(t, int64(2), countRows(t, db, &NationalForecastEntity{}))
	assert.Equal(t, int64(1), countRows(t, db, &NationalForecastValueEntity{}))
}

func TestSQLForecastObjectStore_SaveIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	db := setupSQLiteDB(t)
	s := gormadapter.NewGormSession(db)
	store := NewSQLForecastObjectStore()

	err := store.Save(ctx, s, []*model.Forecast{{LocationName: "first", CreatedUTC: fixedNow}, nil})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index 1 is nil")
	assert.False(t, s.InTransaction())

	assert.Equal(t, int64(0), countRows(t, db, &NationalForecastEntity{}))
}
