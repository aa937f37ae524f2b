package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Students",
		Headers: []string{"Name", "Status"},
		Rows: []map[string]string{
			{"Name": "Aarav", "Status": "active"},
			{"Name": "Diya, K", "Status": "inactive"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, "Name,Status\nAarav,active\n\"Diya, K\",inactive\n", string(out))
}

func TestCSVExporterNeutralizesFormulas(t *testing.T) {
	data := Dataset{
		Headers: []string{"Name", "Balance"},
		Rows: []map[string]string{
			{"Name": "=HYPERLINK(\"x\")", "Balance": "-12.5"},
			{"Name": "@SUM(A1)", "Balance": "-x"},
		},
	}

	out, err := NewCSVExporter().Render(data)

	require.NoError(t, err)
	assert.Equal(t, "Name,Balance\n\"'=HYPERLINK(\"\"x\"\")\",-12.5\n'@SUM(A1),'-x\n", string(out))
}

func TestExportersRequireHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
	_, err = NewPDFExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	data := sampleDataset()
	data.Rows = append(data.Rows, map[string]string{"Name": "A very long student name that will not fit in the column at all", "Status": "active"})

	out, err := NewPDFExporter().Render(data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.Equal(t, "application/pdf", NewPDFExporter().ContentType())
}
