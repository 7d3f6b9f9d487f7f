package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PipelineConfig holds the input paths and worker settings for a run.
type PipelineConfig struct {
	FlowLogPath string `yaml:"flow_log_path"`
	TagRulePath string `yaml:"tag_rule_path"`
	NumWorkers  int    `yaml:"num_workers"`
	WaitTimeout string `yaml:"wait_timeout"`
}

// GeneratorConfig controls synthetic input generation before a run.
type GeneratorConfig struct {
	Enabled  bool `yaml:"enabled"`
	NumFlows int  `yaml:"num_flows"`
	NumRules int  `yaml:"num_rules"`
}

// CSVConfig configures the CSV report writer.
type CSVConfig struct {
	OutputDir string `yaml:"output_dir"`
}

// ClickHouseConfig configures the ClickHouse report writer and querier.
type ClickHouseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// WriterDef defines a single report writer from the config file.
type WriterDef struct {
	Type       string           `yaml:"type"`
	Enabled    bool             `yaml:"enabled"`
	CSV        CSVConfig        `yaml:"csv"`
	ClickHouse ClickHouseConfig `yaml:"clickhouse"`
}

// NATSConfig configures the run-summary publisher.
type NATSConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// APIConfig configures the report API server.
type APIConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// Config is the top-level configuration struct for the entire application.
type Config struct {
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Generator GeneratorConfig `yaml:"generator"`
	Writers   []WriterDef     `yaml:"writers"`
	NATS      NATSConfig      `yaml:"nats"`
	API       APIConfig       `yaml:"api"`
}

// LoadConfig reads the configuration from a YAML file and returns a Config struct.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	return &cfg, nil
}
