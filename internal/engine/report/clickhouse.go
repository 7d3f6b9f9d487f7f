package report

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"FlowTally/internal/config"
	"FlowTally/internal/factory"
	"FlowTally/internal/model"
)

const createTableStatement = `
CREATE TABLE IF NOT EXISTS report_counts (
    Timestamp DateTime,
    RunID     String,
    Report    String,
    Key       String,
    Count     UInt64
) ENGINE = MergeTree()
PARTITION BY toYYYYMM(Timestamp)
ORDER BY (Report, Timestamp);
`

// --- Factory Registration ---

func init() {
	factory.RegisterWriter("clickhouse", func(def config.WriterDef) (model.ReportWriter, error) {
		return NewClickHouseWriter(def.ClickHouse)
	})
}

// ClickHouseWriter implements the model.ReportWriter interface for ClickHouse.
type ClickHouseWriter struct {
	conn driver.Conn
}

// NewClickHouseWriter connects to ClickHouse and ensures the report table exists.
func NewClickHouseWriter(cfg config.ClickHouseConfig) (model.ReportWriter, error) {
	conn, err := Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}

	if err := conn.Exec(context.Background(), createTableStatement); err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	log.Println("Successfully connected to ClickHouse and ensured table exists.")

	return &ClickHouseWriter{conn: conn}, nil
}

// Connect opens a ClickHouse connection and verifies it with a ping.
func Connect(cfg config.ClickHouseConfig) (driver.Conn, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Debug: false,
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})

	if err != nil {
		return nil, err
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}

	return conn, nil
}

// WriteReport inserts one batch of report rows into the report_counts table.
func (w *ClickHouseWriter) WriteReport(runID, name, header string, rows []model.Row) error {
	batch, err := w.conn.PrepareBatch(context.Background(), "INSERT INTO report_counts")
	if err != nil {
		return fmt.Errorf("failed to prepare batch for report '%s': %w", name, err)
	}

	now := time.Now()
	for _, row := range rows {
		if err := batch.Append(now, runID, name, row.Key, row.Count); err != nil {
			return fmt.Errorf("failed to append row to batch for report '%s': %w", name, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch for report '%s': %w", name, err)
	}

	log.Printf("Successfully wrote %d rows of report '%s' to ClickHouse", len(rows), name)
	return nil
}

// Close closes the underlying connection.
func (w *ClickHouseWriter) Close() error {
	return w.conn.Close()
}
