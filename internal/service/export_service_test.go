package service

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal/internal/catalog"
	"github.com/noah-isme/school-portal/internal/models"
	appErrors "github.com/noah-isme/school-portal/pkg/errors"
)

func studentDataset() (string, []models.Student) {
	return "Students", []models.Student{
		{ID: "s1", Name: "Ana", RollNumber: "01", Status: models.StudentActive},
		{ID: "s2", Name: "Budi", RollNumber: "02", Status: models.StudentInactive},
	}
}

func TestBuildDatasetUsesSchemaColumns(t *testing.T) {
	title, items := studentDataset()
	columns := catalog.StudentSchema().Columns

	data := BuildDataset(title, columns, items)

	require.Len(t, data.Headers, len(columns))
	require.Len(t, data.Rows, 2)
	assert.Equal(t, columns[0].Value(items[1]), data.Rows[1][data.Headers[0]])
}

func TestExportRenderCSV(t *testing.T) {
	svc := NewExportService(nil, nil, nil)
	svc.now = func() time.Time { return time.Date(2026, time.October, 16, 8, 30, 0, 0, time.UTC) }
	title, items := studentDataset()

	result, err := svc.Render(catalog.Students, "CSV", BuildDataset(title, catalog.StudentSchema().Columns, items))

	require.NoError(t, err)
	assert.Equal(t, "students_20261016_083000.csv", result.Filename)
	assert.Equal(t, "text/csv", result.ContentType)
	records, err := csv.NewReader(bytes.NewReader(result.Payload)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestExportRenderPDF(t *testing.T) {
	svc := NewExportService(nil, nil, nil)
	title, items := studentDataset()

	result, err := svc.Render(catalog.Students, "pdf", BuildDataset(title, catalog.StudentSchema().Columns, items))

	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, bytes.HasPrefix(result.Payload, []byte("%PDF")))
}

func TestExportRenderRejectsUnknownFormat(t *testing.T) {
	svc := NewExportService(nil, nil, nil)

	_, err := svc.Render(catalog.Students, "xlsx", BuildDataset("Students", catalog.StudentSchema().Columns, nil))

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnsupportedFormat.Code, appErrors.FromError(err).Code)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "export", sanitizeFilename(""))
	assert.Equal(t, "a-b_c", sanitizeFilename("a/b c"))
}
