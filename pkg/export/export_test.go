package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	exporter := NewCSVExporter()
	data := Dataset{
		Headers: []string{"Activity", "Category", "Credits"},
		Rows: []map[string]string{
			{"Activity": "Journal Publication", "Category": "research", "Credits": "15"},
			{"Activity": "Workshop Attended", "Category": "professional", "Credits": "5"},
		},
	}

	out, err := exporter.Render(data)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Activity,Category,Credits", lines[0])
	assert.Contains(t, lines[1], "Journal Publication")
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	exporter := NewCSVExporter()
	_, err := exporter.Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	exporter := NewPDFExporter()
	data := Dataset{
		Headers: []string{"Activity", "Credits"},
		Rows:    []map[string]string{{"Activity": "Patent Filed", "Credits": "20"}},
	}

	out, err := exporter.Render(data, "CPS Credit Statement", "Total approved credits: 20")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"))
}
