package pipeline

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"FlowTally/internal/config"
	"FlowTally/internal/engine/counter"
	"FlowTally/internal/engine/parser"
	_ "FlowTally/internal/engine/report" // Registers csv and clickhouse writers
	"FlowTally/internal/factory"
	"FlowTally/internal/metric"
	"FlowTally/internal/model"
	"FlowTally/internal/notify"
)

// Report names and headers.
const (
	PortProtocolReport = "port_protocol_counts"
	TagReport          = "tag_counts"

	portProtocolHeader = "Port,Protocol,Count"
	tagHeader          = "Tag,Count"
)

// Pipeline wires the parser, counters, report writers and run-summary
// publisher into a single batch run.
type Pipeline struct {
	cfg       *config.Config
	writers   []model.ReportWriter
	publisher *notify.Publisher
}

// New creates a pipeline from the config, building all enabled writers and,
// when configured, the NATS publisher.
func New(cfg *config.Config) (*Pipeline, error) {
	writers, err := factory.CreateWriters(cfg)
	if err != nil {
		return nil, err
	}
	if len(writers) == 0 {
		return nil, fmt.Errorf("no enabled report writers configured")
	}

	var publisher *notify.Publisher
	if cfg.NATS.Enabled {
		publisher, err = notify.NewPublisher(cfg.NATS)
		if err != nil {
			log.Printf("Warning: failed to connect to NATS at %s: %v, run summaries will not be published.", cfg.NATS.URL, err)
			publisher = nil
		}
	}

	return &Pipeline{cfg: cfg, writers: writers, publisher: publisher}, nil
}

// Run executes one full aggregation pass: read inputs, parse, count, write
// both reports through every writer. Per-record problems are dropped
// silently; any I/O failure aborts the run.
func (p *Pipeline) Run() error {
	runID := uuid.NewString()
	numWorkers := p.cfg.Pipeline.NumWorkers

	flowLines, err := readLines(p.cfg.Pipeline.FlowLogPath)
	if err != nil {
		return err
	}
	ruleLines, err := readLines(p.cfg.Pipeline.TagRulePath)
	if err != nil {
		return err
	}

	keys := parser.ParseFlows(flowLines, numWorkers)
	rules := parser.ParseTagRules(ruleLines)

	dropped := len(flowLines) - len(keys)
	metric.FlowsParsed.Add(float64(len(keys)))
	metric.RecordsDropped.Add(float64(dropped))
	metric.RulesLoaded.Add(float64(len(rules)))

	keyCounts := counter.CountKeys(keys, numWorkers)
	tagCounts := counter.CountTags(keys, rules, numWorkers)

	for _, writer := range p.writers {
		if err := writer.WriteReport(runID, PortProtocolReport, portProtocolHeader, keyRows(keyCounts)); err != nil {
			return err
		}
		if err := writer.WriteReport(runID, TagReport, tagHeader, tagRows(tagCounts)); err != nil {
			return err
		}
	}
	metric.ReportRowsWritten.WithLabelValues(PortProtocolReport).Add(float64(len(keyCounts)))
	metric.ReportRowsWritten.WithLabelValues(TagReport).Add(float64(len(tagCounts)))

	if p.publisher != nil {
		summary := &model.RunSummary{
			RunID:        runID,
			Flows:        len(keys),
			DroppedFlows: dropped,
			DistinctKeys: len(keyCounts),
			Rules:        len(rules),
			Tags:         len(tagCounts),
			CompletedAt:  time.Now().UTC(),
		}
		if err := p.publisher.PublishRunSummary(summary); err != nil {
			log.Printf("Warning: failed to publish run summary: %v", err)
		}
	}

	log.Printf("Run %s complete: %d flows (%d dropped), %d distinct port/protocol pairs, %d tag buckets.",
		runID, len(keys), dropped, len(keyCounts), len(tagCounts))
	return nil
}

// Close releases all writers and the publisher.
func (p *Pipeline) Close() {
	for _, writer := range p.writers {
		if err := writer.Close(); err != nil {
			log.Printf("Warning: failed to close report writer: %v", err)
		}
	}
	if p.publisher != nil {
		p.publisher.Close()
	}
}

// readLines reads a headered CSV file and returns its de-headered lines.
func readLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file '%s': %w", path, err)
	}
	defer file.Close()

	var lines []string
	first := true
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if first {
			first = false
			continue
		}
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input file '%s': %w", path, err)
	}
	return lines, nil
}

func keyRows(counts map[model.FlowKey]uint64) []model.Row {
	rows := make([]model.Row, 0, len(counts))
	for key, count := range counts {
		rows = append(rows, model.Row{Key: key.String(), Count: count})
	}
	return rows
}

func tagRows(counts map[string]uint64) []model.Row {
	rows := make([]model.Row, 0, len(counts))
	for tag, count := range counts {
		rows = append(rows, model.Row{Key: tag, Count: count})
	}
	return rows
}
