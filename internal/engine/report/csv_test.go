package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"FlowTally/internal/model"
)

func TestCSVWriterWriteReport(t *testing.T) {
	dir := t.TempDir()
	writer := NewCSVWriter(dir)

	rows := []model.Row{
		{Key: "80,TCP", Count: 2},
		{Key: "443,TCP", Count: 1},
	}
	if err := writer.WriteReport("run-1", "port_protocol_counts", "Port,Protocol,Count", rows); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "port_protocol_counts.csv"))
	if err != nil {
		t.Fatalf("Failed to read report file: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "Port,Protocol,Count" {
		t.Errorf("Expected header first, got %q", lines[0])
	}

	// Row order is unspecified; check as a set.
	got := map[string]bool{lines[1]: true, lines[2]: true}
	for _, want := range []string{"80,TCP,2", "443,TCP,1"} {
		if !got[want] {
			t.Errorf("Expected row %q in output, got %v", want, lines[1:])
		}
	}
}

func TestCSVWriterEmptyReport(t *testing.T) {
	dir := t.TempDir()
	writer := NewCSVWriter(dir)

	if err := writer.WriteReport("run-1", "tag_counts", "Tag,Count", nil); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "tag_counts.csv"))
	if err != nil {
		t.Fatalf("Failed to read report file: %v", err)
	}
	if string(data) != "Tag,Count\n" {
		t.Errorf("Expected header only, got %q", string(data))
	}
}

func TestCSVWriterFailureNamesDestination(t *testing.T) {
	// A file where the output directory should be forces a create failure.
	dir := t.TempDir()
	blocked := filepath.Join(dir, "blocked")
	if err := os.WriteFile(blocked, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to create blocking file: %v", err)
	}

	writer := NewCSVWriter(blocked)
	err := writer.WriteReport("run-1", "tag_counts", "Tag,Count", nil)
	if err == nil {
		t.Fatalf("Expected an error writing into a blocked directory")
	}
	if !strings.Contains(err.Error(), blocked) {
		t.Errorf("Expected error to identify the destination, got: %v", err)
	}
}
