package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"

	"github.com/codeinsight-tools/inventory-audit/audit"
	"github.com/codeinsight-tools/inventory-audit/utils"
)

const zstdExt = ".zst"

var header = []string{"Project Name", "Project Contact", "Inventory Item", "Inventory URL"}

// WriteCSV writes one row per hit to path. A ".zst" suffix compresses the output.
func WriteCSV(fs afero.Fs, path string, hits []audit.Hit) error {
	err := utils.NewFs(fs).WriteFile(path, func(w io.Writer) error {
		if !strings.HasSuffix(path, zstdExt) {
			return Encode(w, hits)
		}

		enc, err := zstd.NewWriter(w)
		if err != nil {
			return xerrors.Errorf("failed to create zstd writer: %w", err)
		}
		if err = Encode(enc, hits); err != nil {
			enc.Close()
			return err
		}
		return enc.Close()
	})
	if err != nil {
		return xerrors.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}

// Encode writes the CSV header and rows to w.
func Encode(w io.Writer, hits []audit.Hit) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return xerrors.Errorf("csv write error: %w", err)
	}
	for _, hit := range hits {
		row := []string{hit.Project.Name, hit.ContactEmail, hit.Item.Name, hit.URL}
		if err := cw.Write(row); err != nil {
			return xerrors.Errorf("csv write error: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return xerrors.Errorf("csv flush error: %w", err)
	}
	return nil
}

// PrintSummary writes the human readable run summary.
func PrintSummary(w io.Writer, r *audit.Result) {
	fmt.Fprintf(w, "Projects examined:     %d\n", r.ProjectsExamined)
	fmt.Fprintf(w, "Total inventory items: %d\n", r.ItemsSeen)
	fmt.Fprintf(w, "Total hits:            %d\n", len(r.Hits))

	if len(r.Ignored) > 0 {
		fmt.Fprintf(w, "\nIgnored projects (%d):\n", len(r.Ignored))
		for _, name := range r.Ignored {
			fmt.Fprintf(w, "    %s\n", name)
		}
	}

	if len(r.Skipped) > 0 {
		fmt.Fprintf(w, "\nThe following projects could not be fully examined, please review manually (%d):\n", len(r.Skipped))
		for _, name := range r.Skipped {
			fmt.Fprintf(w, "    %s\n", name)
		}
	}
}
