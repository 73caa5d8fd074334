package reader

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigerroll/solarsink/pkg/solar/adapter/storage/local"
	"github.com/tigerroll/solarsink/pkg/solar/support/util/exception"
)

func writeFile(t *testing.T, content string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "in.csv"), []byte(content), 0o644))
	return dir, "in.csv"
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for _, s := range []string{
		"2025-06-01T12:00:00Z",
		"2025-06-01T14:00:00+02:00",
		"2025-06-01 12:00:00",
		"2025-06-01 12:00:00+00:00",
		"2025-06-01T12:00:00",
		" 2025-06-01 12:00 ",
	} {
		got, err := ParseTimestamp(s)
		require.NoError(t, err, s)
		assert.True(t, want.Equal(got), s)
		assert.Equal(t, time.UTC, got.Location(), s)
	}

	_, err := ParseTimestamp("yesterday")
	assert.Error(t, err)
}

func TestReadGeneration(t *testing.T) {
	dir, name := writeFile(t, "target_datetime_utc,solar_generation_kw,capacity_kw,tso_zone\n"+
		"2025-06-01 12:00:00,100.5,2000,TenneT\n"+
		"2025-06-01 12:15:00,101,,10YDE-VE-------2\n")

	table, err := NewCSVReader(local.NewStore("")).ReadGeneration(context.Background(), dir, name)
	require.NoError(t, err)

	require.Equal(t, 2, table.Len())
	assert.Equal(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), table.Rows[0].TargetTime)
	assert.Equal(t, 100.5, table.Rows[0].SolarGenerationKW)
	require.NotNil(t, table.Rows[0].CapacityKW)
	assert.Equal(t, 2000.0, *table.Rows[0].CapacityKW)
	assert.Nil(t, table.Rows[1].CapacityKW)
	assert.Equal(t, "10YDE-VE-------2", table.Rows[1].TSOZone)
}

func TestReadGeneration_HeaderOnly(t *testing.T) {
	dir, name := writeFile(t, "target_datetime_utc,solar_generation_kw\n")

	table, err := NewCSVReader(local.NewStore("")).ReadGeneration(context.Background(), dir, name)
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
}

func TestReadGeneration_Errors(t *testing.T) {
	r := NewCSVReader(local.NewStore(""))

	dir, name := writeFile(t, "time,kw\n2025-06-01,1\n")
	_, err := r.ReadGeneration(context.Background(), dir, name)
	assert.True(t, exception.IsInputError(err))

	dir, name = writeFile(t, "target_datetime_utc,solar_generation_kw\nnot-a-time,1\n")
	_, err = r.ReadGeneration(context.Background(), dir, name)
	assert.True(t, exception.IsInputError(err))

	_, err = r.ReadGeneration(context.Background(), t.TempDir(), "missing.csv")
	assert.True(t, exception.IsSolarError(err))
}

func TestReadForecast(t *testing.T) {
	dir, name := writeFile(t, "\ufefftarget_datetime_utc,solar_generation_kw,extra\n2025-06-01T12:00:00Z,42,x\n")

	table, err := NewCSVReader(local.NewStore("")).ReadForecast(context.Background(), dir, name)
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, 42.0, table.Rows[0].SolarGenerationKW)
}

func TestReadFrame(t *testing.T) {
	dir, name := writeFile(t, "a,b\n1,2\n3,4\n")

	frame, err := NewCSVReader(local.NewStore("")).ReadFrame(context.Background(), dir, name)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, frame.Columns)
	assert.Equal(t, 2, frame.Len())
}
