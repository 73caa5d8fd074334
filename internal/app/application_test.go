package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	gormadapter "github.com/tigerroll/solarsink/pkg/solar/adapter/database/gorm"
	sqliteprovider "github.com/tigerroll/solarsink/pkg/solar/adapter/database/gorm/sqlite"
	"github.com/tigerroll/solarsink/pkg/solar/core/config"
	"github.com/tigerroll/solarsink/pkg/solar/core/persister"
	sqlrepo "github.com/tigerroll/solarsink/pkg/solar/infrastructure/repository/sql"
	"github.com/tigerroll/solarsink/pkg/solar/support/util/clock"
)

type appFixture struct {
	dir    string
	dbPath string
	config config.EmbeddedConfig
}

func newAppFixture(t *testing.T) *appFixture {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "solar.db")

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{Logger: gormadapter.NewGormLogger("silent")})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(sqlrepo.Entities()...))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	yaml := fmt.Sprintf(`
solar:
  system:
    logging:
      level: ERROR
  persistence:
    db_ref: local
    csv_dir: %s
  database:
    local:
      type: sqlite
      database: %s
      pool:
        max_open_conns: 1
`, filepath.Join(dir, "fallback"), dbPath)

	return &appFixture{dir: dir, dbPath: dbPath, config: config.EmbeddedConfig(yaml)}
}

func (f *appFixture) write(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(f.dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func (f *appFixture) count(t *testing.T, entity interface{}) int64 {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(f.dbPath), &gorm.Config{Logger: gormadapter.NewGormLogger("silent")})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()
	var n int64
	require.NoError(t, db.Model(entity).Count(&n).Error)
	return n
}

func (f *appFixture) open(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(f.dbPath), &gorm.Config{Logger: gormadapter.NewGormLogger("silent")})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

// steppingClock advances by step on every call.
type steppingClock struct {
	next time.Time
	step time.Duration
}

func (c *steppingClock) Now() time.Time {
	now := c.next
	c.next = c.next.Add(c.step)
	return now
}

func (f *appFixture) run(t *testing.T, cmd Command) error {
	t.Helper()
	return RunApplication(context.Background(), "", f.config, cmd, []fx.Option{sqliteprovider.Module})
}

func TestRunApplication_Generation(t *testing.T) {
	f := newAppFixture(t)
	input := f.write(t, "generation.csv", "target_datetime_utc,solar_generation_kw,tso_zone\n"+
		"2025-06-01 12:00:00,10,TenneT\n"+
		"2025-06-01 12:15:00,11,Amprion\n"+
		"2025-06-01 12:30:00,12,unknown\n")

	require.NoError(t, f.run(t, Command{Name: CommandGeneration, Input: input, Country: "de"}))

	assert.Equal(t, int64(2), f.count(t, &sqlrepo.SiteEntity{}))
	assert.Equal(t, int64(2), f.count(t, &sqlrepo.GenerationEntity{}))
}

func TestRunApplication_ForecastWithExports(t *testing.T) {
	f := newAppFixture(t)
	input := f.write(t, "forecast.csv", "target_datetime_utc,solar_generation_kw\n"+
		"2025-06-01 12:00:00,1000\n"+
		"2025-06-01 12:15:00,1100\n")
	out := filepath.Join(f.dir, "out")

	require.NoError(t, f.run(t, Command{
		Name:      CommandForecast,
		Input:     input,
		National:  true,
		ExportDir: out,
		Parquet:   true,
	}))

	assert.Equal(t, int64(1), f.count(t, &sqlrepo.ForecastEntity{}))
	assert.Equal(t, int64(2), f.count(t, &sqlrepo.ForecastValueEntity{}))
	assert.Equal(t, int64(1), f.count(t, &sqlrepo.NationalForecastEntity{}))
	assert.FileExists(t, filepath.Join(out, persister.ForecastCSVFile))
	assert.FileExists(t, filepath.Join(out, persister.ForecastParquetFile))
}

func TestRunApplication_ForecastFallsBackToCSV(t *testing.T) {
	f := newAppFixture(t)
	input := f.write(t, "forecast.csv", "target_datetime_utc,solar_generation_kw\n2025-06-01 12:00:00,1000\n")

	// no providers: the connection cannot be resolved
	err := RunApplication(context.Background(), "", f.config, Command{Name: CommandForecast, Input: input}, nil)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(f.dir, "fallback", persister.ForecastCSVFile))
}

func TestRunApplication_ForecastExportSharesStoredIssuance(t *testing.T) {
	f := newAppFixture(t)
	input := f.write(t, "forecast.csv", "target_datetime_utc,solar_generation_kw\n"+
		"2025-06-01 12:00:00,1000\n"+
		"2025-06-01 12:15:00,1100\n")
	out := filepath.Join(f.dir, "out")

	// every reading of the clock crosses a quarter-hour boundary
	c := &steppingClock{next: time.Date(2025, 6, 1, 12, 10, 0, 0, time.UTC), step: 10 * time.Minute}
	err := RunApplication(context.Background(), "", f.config, Command{Name: CommandForecast, Input: input, ExportDir: out},
		[]fx.Option{sqliteprovider.Module, fx.Decorate(func(clock.Clock) clock.Clock { return c })})
	require.NoError(t, err)

	var run sqlrepo.ForecastEntity
	require.NoError(t, f.open(t).First(&run).Error)
	assert.True(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC).Equal(run.TimestampUTC), run.TimestampUTC.String())

	var stored []sqlrepo.ForecastValueEntity
	require.NoError(t, f.open(t).Order("start_utc").Find(&stored).Error)
	require.Len(t, stored, 2)

	b, err := os.ReadFile(filepath.Join(out, persister.ForecastCSVFile))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 3)
	for i, v := range stored {
		assert.True(t, strings.HasSuffix(lines[i+1], ","+strconv.FormatFloat(v.HorizonMinutes, 'f', -1, 64)), lines[i+1])
	}
	assert.Equal(t, []float64{0, 15}, []float64{stored[0].HorizonMinutes, stored[1].HorizonMinutes})
}

func TestRunApplication_Export(t *testing.T) {
	f := newAppFixture(t)
	input := f.write(t, "frame.csv", "forecast_power_kw,_sa_instance_state\n1,x\n")
	out := filepath.Join(f.dir, "exported")

	require.NoError(t, f.run(t, Command{Name: CommandExport, Input: input, ExportDir: out}))

	b, err := os.ReadFile(filepath.Join(out, persister.ForecastCSVFile))
	require.NoError(t, err)
	assert.Equal(t, "forecast_power_kw\n1\n", string(b))
}

func TestRunApplication_InvalidConfig(t *testing.T) {
	f := newAppFixture(t)
	f.config = config.EmbeddedConfig("solar:\n  persistence:\n    country: fr\n")

	err := f.run(t, Command{Name: CommandExport, Input: "x.csv"})
	assert.Error(t, err)
}
