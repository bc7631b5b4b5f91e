package report

import (
	"bytes"
	"io"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeinsight-tools/inventory-audit/audit"
	"github.com/codeinsight-tools/inventory-audit/catalog"
)

var testHits = []audit.Hit{
	{
		Project:      catalog.Project{ID: 1, Name: "Payments", Owner: "jdoe"},
		ContactEmail: "jdoe@example.com",
		Item:         catalog.InventoryItem{ID: 10, Name: "kafka-clients-2.1"},
		URL:          "https://ci.example.com/codeinsight/FNCI#myprojectdetails/?id=1&tab=projectInventory&pinv=10",
	},
	{
		Project:      catalog.Project{ID: 2, Name: "Search, Legacy", Owner: "asmith"},
		ContactEmail: "asmith@example.com",
		Item:         catalog.InventoryItem{ID: 20, Name: "log4j-core-2.14 [bundled with struts-1.0]"},
		URL:          "https://ci.example.com/codeinsight/FNCI#myprojectdetails/?id=2&tab=projectInventory&pinv=20",
	},
}

const wantCSV = `Project Name,Project Contact,Inventory Item,Inventory URL
Payments,jdoe@example.com,kafka-clients-2.1,https://ci.example.com/codeinsight/FNCI#myprojectdetails/?id=1&tab=projectInventory&pinv=10
"Search, Legacy",asmith@example.com,log4j-core-2.14 [bundled with struts-1.0],https://ci.example.com/codeinsight/FNCI#myprojectdetails/?id=2&tab=projectInventory&pinv=20
`

func TestWriteCSV(t *testing.T) {
	tests := []struct {
		name string
		path string
		hits []audit.Hit
		want string
	}{
		{
			name: "hits",
			path: "out/inventory_search_results.csv",
			hits: testHits,
			want: wantCSV,
		},
		{
			name: "header only",
			path: "empty.csv",
			want: "Project Name,Project Contact,Inventory Item,Inventory URL\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, WriteCSV(fs, tt.path, tt.hits))

			got, err := afero.ReadFile(fs, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestWriteCSV_Zstd(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, WriteCSV(fs, "results.csv.zst", testHits))

	b, err := afero.ReadFile(fs, "results.csv.zst")
	require.NoError(t, err)

	dec, err := zstd.NewReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer dec.Close()

	got, err := io.ReadAll(dec)
	require.NoError(t, err)
	assert.Equal(t, wantCSV, string(got))
}

func TestWriteCSV_ReadOnlyFs(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	err := WriteCSV(fs, "results.csv", testHits)
	assert.ErrorContains(t, err, "failed to write report results.csv")
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, &audit.Result{
		Hits:             testHits,
		Skipped:          []string{"Search"},
		Ignored:          []string{"PROJECT 1"},
		ProjectsExamined: 3,
		ItemsSeen:        42,
	})

	want := `Projects examined:     3
Total inventory items: 42
Total hits:            2

Ignored projects (1):
    PROJECT 1

The following projects could not be fully examined, please review manually (1):
    Search
`
	assert.Equal(t, want, buf.String())
}

func TestPrintSummary_NothingSkipped(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, &audit.Result{ProjectsExamined: 1})

	assert.Equal(t, "Projects examined:     1\nTotal inventory items: 0\nTotal hits:            0\n", buf.String())
}
