package sql

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	gormadapter "github.com/tigerroll/solarsink/pkg/solar/adapter/database/gorm"
	"github.com/tigerroll/solarsink/pkg/solar/core/domain/model"
	"github.com/tigerroll/solarsink/pkg/solar/core/domain/repository"
	"github.com/tigerroll/solarsink/pkg/solar/support/util/clock"
	"github.com/tigerroll/solarsink/pkg/solar/support/util/exception"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormadapter.NewGormLogger("silent"),
	})
	require.NoError(t, err)
	return db, mock
}

func TestSQLSiteDirectory_LookupErrorIsNotNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	s := gormadapter.NewGormSession(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "sites" WHERE "sites"\."client_site_name" = \$1`).
		WillReturnError(errors.New("connection refused"))
	mock.ExpectRollback()

	dir := NewSQLSiteDirectory(clock.FixedClock{T: fixedNow})
	_, err := dir.FindByClientSiteName(context.Background(), s, "nl_national", "nl_national")
	require.Error(t, err)
	assert.False(t, errors.Is(err, repository.ErrSiteNotFound))
	assert.True(t, exception.IsSolarError(err))
	assert.Contains(t, err.Error(), "connection refused")

	require.NoError(t, s.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLSiteDirectory_FindReturnsRow(t *testing.T) {
	db, mock := setupMockDB(t)
	s := gormadapter.NewGormSession(db)
	id := uuid.New()

	mock.ExpectBegin()
	rows := sqlmock.NewRows([]string{"location_uuid", "client_site_id", "client_site_name", "country", "latitude", "longitude", "capacity_kw", "dno", "gsp", "created_utc"}).
		AddRow(id.String(), 1, "nl_national", "nl", 52.15, 5.23, 20_000_000.0, "", "", fixedNow)
	mock.ExpectQuery(`SELECT \* FROM "sites"`).WillReturnRows(rows)

	dir := NewSQLSiteDirectory(clock.FixedClock{T: fixedNow})
	site, err := dir.FindByClientSiteName(context.Background(), s, "nl_national", "nl_national")
	require.NoError(t, err)
	assert.Equal(t, id, site.LocationUUID)
	assert.Equal(t, 52.15, site.Latitude)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLForecastStore_RollsBackOnFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	s := gormadapter.NewGormSession(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "ml_model"`).WillReturnError(errors.New("permission denied"))
	mock.ExpectRollback()

	store := NewSQLForecastStore(clock.FixedClock{T: fixedNow})
	err := store.Insert(context.Background(), s,
		[]model.ForecastRecord{{ForecastPowerKW: 1, StartUTC: fixedNow}},
		model.ForecastRunMeta{SiteUUID: uuid.New(), TimestampUTC: fixedNow, ForecastVersion: "1"},
		"nl-solar", "1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
	assert.False(t, s.InTransaction())
	assert.NoError(t, mock.ExpectationsWereMet())
}
