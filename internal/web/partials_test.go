package web

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vare7/cloud-db-inventory/internal/inventory"
)

func TestImportSummary(t *testing.T) {
	var skipped []inventory.SkipEntry
	for i := 1; i <= 7; i++ {
		skipped = append(skipped, inventory.SkipEntry{RowNumber: i, Reason: fmt.Sprintf("Missing <field> %d", i)})
	}

	var buf bytes.Buffer
	err := importSummary("Imported 3 VMs", []summaryCount{{"Imported", 3}, {"Skipped", 7}}, skipped).
		Render(context.Background(), &buf)
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, `role="status"`)
	assert.Contains(t, html, "<li>Imported: 3</li>")
	assert.Contains(t, html, "<li>Row 5: Missing &lt;field&gt; 5</li>")
	assert.NotContains(t, html, "Row 6:")
	assert.Contains(t, html, "... and 2 more")
}

func TestImportSummary_NoSkips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, importSummary("done", nil, nil).Render(context.Background(), &buf))
	assert.NotContains(t, buf.String(), "<details")
}

func TestHTMXImportSummary(t *testing.T) {
	srv, _ := newTestServer(t)

	req := uploadRequest(t, "/api/import", map[string]string{"provider": "aws"}, csvLines(
		"service,engine,region",
		"orders,postgres,us-east-1",
		",mysql,eu-west-1",
	))
	req.Header.Set("HX-Request", "true")
	rec := serve(srv, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<li>Created: 1</li>")
	assert.Contains(t, rec.Body.String(), "Row 2:")

	req = uploadRequest(t, "/api/azure-vms/import-csv", nil, vmExport())
	req.Header.Set("HX-Request", "true")
	rec = serve(srv, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "<li>Imported: 2</li>")
	assert.Contains(t, rec.Body.String(), "<li>Purged: 0</li>")
}
