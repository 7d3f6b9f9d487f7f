package notify

import (
	"encoding/json"
	"log"

	"github.com/nats-io/nats.go"

	"FlowTally/internal/config"
	"FlowTally/internal/model"
)

// Publisher publishes run summaries to a NATS subject.
type Publisher struct {
	nc      *nats.Conn
	subject string
}

// NewPublisher creates a new NATS publisher.
func NewPublisher(cfg config.NATSConfig) (*Publisher, error) {
	nc, err := nats.Connect(cfg.URL)
	if err != nil {
		return nil, err
	}
	log.Printf("Connected to NATS server at %s", cfg.URL)
	return &Publisher{nc: nc, subject: cfg.Subject}, nil
}

// PublishRunSummary serializes a RunSummary to JSON and publishes it to the
// configured subject.
func (p *Publisher) PublishRunSummary(summary *model.RunSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return p.nc.Publish(p.subject, data)
}

// Close drains and closes the NATS connection.
func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Drain()
		log.Println("NATS connection drained and closed.")
	}
}
