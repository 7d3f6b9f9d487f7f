package factory

import (
	"fmt"
	"log"

	"FlowTally/internal/config"
	"FlowTally/internal/model"
)

// WriterFactory defines a function that creates a report writer from its
// config definition.
type WriterFactory func(def config.WriterDef) (model.ReportWriter, error)

// registry holds the mapping of writer types to their factory functions.
var registry = make(map[string]WriterFactory)

// RegisterWriter registers a new writer type with its factory function.
func RegisterWriter(name string, factory WriterFactory) {
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("writer type '%s' already registered", name))
	}
	registry[name] = factory
}

// CreateWriters creates all enabled report writers from the config.
func CreateWriters(cfg *config.Config) ([]model.ReportWriter, error) {
	var writers []model.ReportWriter

	for _, def := range cfg.Writers {
		if !def.Enabled {
			continue
		}

		factory, ok := registry[def.Type]
		if !ok {
			return nil, fmt.Errorf("unknown writer type: '%s'", def.Type)
		}

		writer, err := factory(def)
		if err != nil {
			return nil, fmt.Errorf("error creating writer type '%s': %w", def.Type, err)
		}

		log.Printf("Created report writer of type '%s'", def.Type)
		writers = append(writers, writer)
	}

	return writers, nil
}
