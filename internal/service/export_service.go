package service

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-portal/internal/resource"
	appErrors "github.com/noah-isme/school-portal/pkg/errors"
	"github.com/noah-isme/school-portal/pkg/export"
)

// Export formats.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// ExportResult is a rendered document ready for download.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders filtered resource views as CSV or PDF.
type ExportService struct {
	exporters map[string]export.Exporter
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService. Nil exporters fall back to the defaults.
func NewExportService(logger *zap.Logger, csv, pdf export.Exporter) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		exporters: map[string]export.Exporter{FormatCSV: csv, FormatPDF: pdf},
		logger:    logger,
		now:       time.Now,
	}
}

// BuildDataset turns records into an export table using the schema columns.
func BuildDataset[T any](title string, columns []resource.Column[T], items []T) export.Dataset {
	headers := make([]string, len(columns))
	for i, col := range columns {
		headers[i] = col.Header
	}
	rows := make([]map[string]string, 0, len(items))
	for _, item := range items {
		row := make(map[string]string, len(columns))
		for _, col := range columns {
			row[col.Header] = col.Value(item)
		}
		rows = append(rows, row)
	}
	return export.Dataset{Title: title, Headers: headers, Rows: rows}
}

// Render produces the document for a resource in the requested format.
func (s *ExportService) Render(resourceName, format string, data export.Dataset) (*ExportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatCSV
	}
	exporter, ok := s.exporters[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, fmt.Sprintf("unsupported export format %q", format))
	}
	payload, err := exporter.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	s.logger.Debug("export rendered", zap.String("resource", resourceName), zap.String("format", format), zap.Int("rows", len(data.Rows)))
	return &ExportResult{
		Filename:    s.filename(resourceName, exporter.Extension()),
		ContentType: exporter.ContentType(),
		Payload:     payload,
	}, nil
}

func (s *ExportService) filename(resourceName, ext string) string {
	timestamp := s.now().UTC().Format("20060102_150405")
	return fmt.Sprintf("%s_%s.%s", sanitizeFilename(resourceName), timestamp, ext)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "export"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
