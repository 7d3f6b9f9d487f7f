package main

import (
	"log"
	"os"
	"time"

	"FlowTally/internal/config"
	"FlowTally/internal/gen"
	"FlowTally/internal/pipeline"
)

func main() {
	log.Println("Starting ft-pipeline...")

	configPath := "configs/config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Println("Configuration loaded successfully.")

	if cfg.Generator.Enabled {
		waitTimeout := time.Hour
		if cfg.Pipeline.WaitTimeout != "" {
			waitTimeout, err = time.ParseDuration(cfg.Pipeline.WaitTimeout)
			if err != nil {
				log.Fatalf("Invalid wait_timeout: %v", err)
			}
		}

		flowGen := gen.NewFlowLogGenerator(cfg.Pipeline.NumWorkers, waitTimeout)
		if err := flowGen.Generate(cfg.Generator.NumFlows, cfg.Pipeline.FlowLogPath); err != nil {
			log.Fatalf("Failed to generate flow logs: %v", err)
		}

		tagGen := gen.NewTagRuleGenerator()
		if err := tagGen.Generate(cfg.Generator.NumRules, cfg.Pipeline.TagRulePath); err != nil {
			log.Fatalf("Failed to generate tag rules: %v", err)
		}
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create pipeline: %v", err)
	}
	defer p.Close()

	if err := p.Run(); err != nil {
		log.Fatalf("Pipeline run failed: %v", err)
	}
}
