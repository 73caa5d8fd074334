package export

import (
	"go.uber.org/fx"

	"github.com/tigerroll/solarsink/pkg/solar/core/persister"
)

// Module provides the CSV and Parquet exporters as the persister's file writers.
// A storage.Store must be provided elsewhere.
var Module = fx.Options(
	fx.Provide(fx.Annotate(NewCSVExporter, fx.As(new(persister.FrameWriter)))),
	fx.Provide(fx.Annotate(NewParquetExporter, fx.As(new(persister.RecordWriter)))),
)
