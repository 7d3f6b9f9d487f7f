package report

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"FlowTally/internal/config"
	"FlowTally/internal/factory"
	"FlowTally/internal/model"
)

// --- Factory Registration ---

func init() {
	factory.RegisterWriter("csv", func(def config.WriterDef) (model.ReportWriter, error) {
		return NewCSVWriter(def.CSV.OutputDir), nil
	})
}

// CSVWriter writes each report as a headered CSV file under a root
// directory. Rows are written in whatever order they are handed over;
// frequency-table iteration order is unspecified and acceptable.
type CSVWriter struct {
	outputDir string
}

// NewCSVWriter creates a CSV report writer rooted at the given directory.
func NewCSVWriter(outputDir string) *CSVWriter {
	return &CSVWriter{outputDir: outputDir}
}

// WriteReport writes the header and rows to <outputDir>/<name>.csv.
// Any write failure aborts with the offending path in the error; partial
// output may be left behind.
func (w *CSVWriter) WriteReport(runID, name, header string, rows []model.Row) error {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory '%s': %w", w.outputDir, err)
	}

	path := filepath.Join(w.outputDir, name+".csv")
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file '%s': %w", path, err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if _, err := writer.WriteString(header + "\n"); err != nil {
		return fmt.Errorf("failed to write header to '%s': %w", path, err)
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(writer, "%s,%d\n", row.Key, row.Count); err != nil {
			return fmt.Errorf("failed to write row to '%s': %w", path, err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush report file '%s': %w", path, err)
	}

	log.Printf("Report CSV file generated successfully: %s (%d rows)", path, len(rows))
	return nil
}

// Close is a no-op; each report opens and closes its own file.
func (w *CSVWriter) Close() error {
	return nil
}
