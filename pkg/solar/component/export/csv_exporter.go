// Package export writes forecast tables to files through a storage.Store.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"path/filepath"

	"github.com/tigerroll/solarsink/pkg/solar/adapter/storage"
	"github.com/tigerroll/solarsink/pkg/solar/core/domain/model"
	"github.com/tigerroll/solarsink/pkg/solar/core/persister"
	"github.com/tigerroll/solarsink/pkg/solar/support/util/exception"
)

const csvContentType = "text/csv"

// CSVExporter renders a frame as comma separated UTF-8 text with a header row and no index column.
type CSVExporter struct {
	store storage.Store
}

var _ persister.FrameWriter = (*CSVExporter)(nil)

// NewCSVExporter creates a CSVExporter writing to store.
func NewCSVExporter(store storage.Store) *CSVExporter {
	return &CSVExporter{store: store}
}

// WriteFrame writes frame to dir/name, replacing any existing file.
func (e *CSVExporter) WriteFrame(ctx context.Context, frame *model.Frame, dir, name string) (string, error) {
	const op = "CSVExporter.WriteFrame"

	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	if err := w.Write(frame.Columns); err != nil {
		return "", exception.NewSolarError(op, "failed to write header", err)
	}
	for i, row := range frame.Rows {
		if len(row) != len(frame.Columns) {
			return "", exception.NewSolarError(op, fmt.Sprintf("row %d has %d fields, want %d", i, len(row), len(frame.Columns)), nil)
		}
		if err := w.Write(row); err != nil {
			return "", exception.NewSolarError(op, fmt.Sprintf("failed to write row %d", i), err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", exception.NewSolarError(op, "failed to flush csv", err)
	}

	if err := e.store.Upload(ctx, dir, name, buf, csvContentType); err != nil {
		return "", exception.NewSolarError(op, fmt.Sprintf("failed to upload '%s'", name), err)
	}
	return filepath.Join(dir, name), nil
}
