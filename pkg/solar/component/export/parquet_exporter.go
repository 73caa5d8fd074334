package export

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/tigerroll/solarsink/pkg/solar/adapter/storage"
	"github.com/tigerroll/solarsink/pkg/solar/core/domain/model"
	"github.com/tigerroll/solarsink/pkg/solar/core/persister"
	"github.com/tigerroll/solarsink/pkg/solar/support/util/exception"
	"github.com/tigerroll/solarsink/pkg/solar/support/util/logger"
)

const (
	parquetContentType = "application/octet-stream"
	// parquetMarshalWorkers is the goroutine count parquet-go marshals rows with on flush.
	parquetMarshalWorkers int64 = 1
)

// ForecastParquetRow is the Parquet schema of an exported forecast value.
type ForecastParquetRow struct {
	ForecastPowerKW float64 `parquet:"name=forecast_power_kw,type=DOUBLE"`
	StartUTC        int64   `parquet:"name=start_utc,type=INT64,convertedtype=TIMESTAMP_MILLIS"`
	EndUTC          int64   `parquet:"name=end_utc,type=INT64,convertedtype=TIMESTAMP_MILLIS"`
	HorizonMinutes  float64 `parquet:"name=horizon_minutes,type=DOUBLE"`
}

// ParquetExporter writes forecast records as a single row group Parquet file.
type ParquetExporter struct {
	store       storage.Store
	compression parquet.CompressionCodec
}

var _ persister.RecordWriter = (*ParquetExporter)(nil)

// NewParquetExporter creates a SNAPPY compressed ParquetExporter writing to store.
func NewParquetExporter(store storage.Store) *ParquetExporter {
	return &ParquetExporter{store: store, compression: parquet.CompressionCodec_SNAPPY}
}

// NewParquetExporterWithCompression accepts "SNAPPY", "GZIP" or "NONE".
func NewParquetExporterWithCompression(store storage.Store, compression string) (*ParquetExporter, error) {
	codec, err := compressionCodec(compression)
	if err != nil {
		return nil, err
	}
	return &ParquetExporter{store: store, compression: codec}, nil
}

// WriteForecastRecords writes records to dir/name, replacing any existing file.
func (e *ParquetExporter) WriteForecastRecords(ctx context.Context, records []model.ForecastRecord, dir, name string) (string, error) {
	const op = "ParquetExporter.WriteForecastRecords"

	buf := new(bytes.Buffer)
	pw, err := writer.NewParquetWriterFromWriter(buf, new(ForecastParquetRow), parquetMarshalWorkers)
	if err != nil {
		return "", exception.NewSolarError(op, "failed to create parquet writer", err)
	}
	pw.CompressionType = e.compression

	for _, r := range records {
		row := ForecastParquetRow{
			ForecastPowerKW: r.ForecastPowerKW,
			StartUTC:        r.StartUTC.UTC().UnixMilli(),
			EndUTC:          r.EndUTC.UTC().UnixMilli(),
			HorizonMinutes:  r.HorizonMinutes,
		}
		if err := pw.Write(row); err != nil {
			return "", exception.NewSolarError(op, "failed to write parquet row", err)
		}
	}

	// WriteStop can panic inside the library on malformed schemas.
	var stopErr error
	func() {
		defer func() {
			if r := recover(); r != nil {
				stopErr = multierror.Append(stopErr, fmt.Errorf("parquet writer panicked during WriteStop: %v", r))
				logger.Errorf("%s: recovered from panic during WriteStop: %v", op, r)
			}
		}()
		if err := pw.WriteStop(); err != nil {
			stopErr = multierror.Append(stopErr, err)
		}
	}()
	if stopErr != nil {
		return "", exception.NewSolarError(op, "failed to finalize parquet file", stopErr)
	}

	if err := e.store.Upload(ctx, dir, name, buf, parquetContentType); err != nil {
		return "", exception.NewSolarError(op, fmt.Sprintf("failed to upload '%s'", name), err)
	}
	return filepath.Join(dir, name), nil
}

func compressionCodec(compression string) (parquet.CompressionCodec, error) {
	switch strings.ToUpper(compression) {
	case "SNAPPY", "":
		return parquet.CompressionCodec_SNAPPY, nil
	case "GZIP":
		return parquet.CompressionCodec_GZIP, nil
	case "NONE":
		return parquet.CompressionCodec_UNCOMPRESSED, nil
	default:
		return 0, fmt.Errorf("unsupported compression type: %s", compression)
	}
}
