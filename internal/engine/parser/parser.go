package parser

import (
	"runtime"
	"strings"
	"sync"

	"FlowTally/internal/engine/protocol"
	"FlowTally/internal/model"
)

const (
	// Flow-log records carry 14 fields; only dstport (6) and protocol (7)
	// are consumed, so anything with at least 8 fields is usable.
	minFlowFields = 8

	// Tag rules are "dstport,protocol,tag".
	minRuleFields = 3
)

// ParseFlows converts de-headered flow-log lines into flow keys. Lines with
// fewer than 8 fields, or whose protocol number is not registered, are
// silently dropped. Lines are independent of each other, so the work is
// partitioned across a fixed pool of workers; output order is unspecified.
func ParseFlows(lines []string, numWorkers int) []model.FlowKey {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > len(lines) {
		numWorkers = len(lines)
	}
	if numWorkers <= 1 {
		return parseFlowChunk(lines)
	}

	partial := make([][]model.FlowKey, numWorkers)
	chunkSize := (len(lines) + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go func(i int) {
			defer wg.Done()
			start := i * chunkSize
			end := start + chunkSize
			if end > len(lines) {
				end = len(lines)
			}
			if start < end {
				partial[i] = parseFlowChunk(lines[start:end])
			}
		}(i)
	}
	wg.Wait()

	keys := make([]model.FlowKey, 0, len(lines))
	for _, p := range partial {
		keys = append(keys, p...)
	}
	return keys
}

func parseFlowChunk(lines []string) []model.FlowKey {
	keys := make([]model.FlowKey, 0, len(lines))
	for _, line := range lines {
		if key, ok := ParseFlowLine(line); ok {
			keys = append(keys, key)
		}
	}
	return keys
}

// ParseFlowLine parses a single flow-log line. ok is false for malformed
// lines and for unresolvable protocol numbers; both are filtering
// decisions, not errors.
func ParseFlowLine(line string) (model.FlowKey, bool) {
	fields := strings.Split(line, ",")
	if len(fields) < minFlowFields {
		return model.FlowKey{}, false
	}
	name, ok := protocol.Lookup(fields[7])
	if !ok {
		return model.FlowKey{}, false
	}
	return model.FlowKey{DstPort: fields[6], Protocol: name}, true
}

// ParseTagRules converts de-headered tag-rule lines into a lookup map.
// Lines with fewer than 3 fields are dropped. Rules are not deduplicated:
// when the same key appears on multiple lines the map ends up holding one
// of the tags (overwrite semantics).
func ParseTagRules(lines []string) map[model.FlowKey]string {
	rules := make(map[model.FlowKey]string, len(lines))
	for _, line := range lines {
		fields := strings.Split(line, ",")
		if len(fields) < minRuleFields {
			continue
		}
		rules[model.FlowKey{DstPort: fields[0], Protocol: fields[1]}] = fields[2]
	}
	return rules
}
