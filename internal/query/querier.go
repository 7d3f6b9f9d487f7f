package query

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"FlowTally/internal/config"
	"FlowTally/internal/engine/report"
)

// ReportRow is a single report row as served by the API.
type ReportRow struct {
	Key   string `json:"key"`
	Count uint64 `json:"count"`
}

// Querier defines the interface for reading back persisted reports.
type Querier interface {
	// LatestReport returns all rows of the named report from the most
	// recent pipeline run.
	LatestReport(ctx context.Context, name string) ([]ReportRow, error)
}

// clickhouseQuerier implements the Querier interface for ClickHouse.
type clickhouseQuerier struct {
	conn driver.Conn
}

// NewClickHouseQuerier creates a new querier for ClickHouse.
func NewClickHouseQuerier(cfg config.ClickHouseConfig) (Querier, error) {
	conn, err := report.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}
	return &clickhouseQuerier{conn: conn}, nil
}

const latestReportQuery = `
SELECT Key, Count
FROM report_counts
WHERE Report = ?
  AND RunID = (
    SELECT RunID FROM report_counts
    WHERE Report = ?
    ORDER BY Timestamp DESC
    LIMIT 1
  )
`

// LatestReport fetches the rows written by the most recent run.
func (q *clickhouseQuerier) LatestReport(ctx context.Context, name string) ([]ReportRow, error) {
	rows, err := q.conn.Query(ctx, latestReportQuery, name, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query report '%s': %w", name, err)
	}
	defer rows.Close()

	var result []ReportRow
	for rows.Next() {
		var row ReportRow
		if err := rows.Scan(&row.Key, &row.Count); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read report rows: %w", err)
	}

	return result, nil
}
