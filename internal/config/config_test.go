package config

import (
	"os"
	"path/filepath"
	"testing"
)

const testYAML = `
pipeline:
  flow_log_path: "data/flow_logs.csv"
  tag_rule_path: "data/tag_rules.csv"
  num_workers: 8
  wait_timeout: "30m"

generator:
  enabled: true
  num_flows: 1000
  num_rules: 100

writers:
  - type: csv
    enabled: true
    csv:
      output_dir: "data/reports"
  - type: clickhouse
    enabled: false
    clickhouse:
      host: "localhost"
      port: 9000
      database: "default"
      username: "default"
      password: ""

nats:
  enabled: true
  url: "nats://localhost:4222"
  subject: "flowtally.runs"

api:
  listen_addr: ":8080"
`

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(testYAML), 0644); err != nil {
		t.Fatalf("Failed to write config fixture: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Pipeline.FlowLogPath != "data/flow_logs.csv" {
		t.Errorf("Unexpected flow_log_path: %q", cfg.Pipeline.FlowLogPath)
	}
	if cfg.Pipeline.NumWorkers != 8 {
		t.Errorf("Unexpected num_workers: %d", cfg.Pipeline.NumWorkers)
	}
	if !cfg.Generator.Enabled || cfg.Generator.NumFlows != 1000 {
		t.Errorf("Unexpected generator config: %+v", cfg.Generator)
	}
	if len(cfg.Writers) != 2 {
		t.Fatalf("Expected 2 writer definitions, got %d", len(cfg.Writers))
	}
	if cfg.Writers[0].Type != "csv" || !cfg.Writers[0].Enabled {
		t.Errorf("Unexpected first writer: %+v", cfg.Writers[0])
	}
	if cfg.Writers[0].CSV.OutputDir != "data/reports" {
		t.Errorf("Unexpected csv output_dir: %q", cfg.Writers[0].CSV.OutputDir)
	}
	if cfg.Writers[1].ClickHouse.Port != 9000 {
		t.Errorf("Unexpected clickhouse port: %d", cfg.Writers[1].ClickHouse.Port)
	}
	if !cfg.NATS.Enabled || cfg.NATS.Subject != "flowtally.runs" {
		t.Errorf("Unexpected NATS config: %+v", cfg.NATS)
	}
	if cfg.API.ListenAddr != ":8080" {
		t.Errorf("Unexpected API listen_addr: %q", cfg.API.ListenAddr)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("Expected an error for a missing config file")
	}
}
