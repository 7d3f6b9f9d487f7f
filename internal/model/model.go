package model

import "time"

// Untagged is the tag bucket for flows that match no tag rule.
const Untagged = "UNTAGGED"

// FlowKey identifies a flow by destination port and resolved protocol name.
// It is a plain comparable struct: equality and map hashing are structural,
// both fields must match exactly. No normalization is performed; callers
// must supply already-normalized values.
type FlowKey struct {
	DstPort  string
	Protocol string
}

// String returns the canonical serialized form of the key.
func (k FlowKey) String() string {
	return k.DstPort + "," + k.Protocol
}

// Row is a single serialized report row: a grouping key in its canonical
// string form and its occurrence count.
type Row struct {
	Key   string
	Count uint64
}

// RunSummary describes one completed pipeline run. It is published to NATS
// when a publisher is configured.
type RunSummary struct {
	RunID        string    `json:"run_id"`
	Flows        int       `json:"flows"`
	DroppedFlows int       `json:"dropped_flows"`
	DistinctKeys int       `json:"distinct_keys"`
	Rules        int       `json:"rules"`
	Tags         int       `json:"tags"`
	CompletedAt  time.Time `json:"completed_at"`
}
