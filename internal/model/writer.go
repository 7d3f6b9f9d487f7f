package model

// ReportWriter defines a generic interface for persisting a single report.
// A report is a header followed by "key,count" rows; row order is whatever
// order the frequency table iterated in.
type ReportWriter interface {
	// WriteReport persists one report. The name identifies the report
	// (e.g. "port_protocol_counts"); runID ties rows from the same
	// pipeline run together for stores that keep history.
	WriteReport(runID, name, header string, rows []Row) error

	// Close releases any resources held by the writer.
	Close() error
}
