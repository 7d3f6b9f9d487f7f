package parser

import (
	"fmt"
	"testing"

	"FlowTally/internal/model"
)

func flowLine(dstPort, protocol string) string {
	return fmt.Sprintf("2,123456789012,eni-0a1b2c3d,10.0.0.1,10.0.0.2,43210,%s,%s,25,2000,1620140761,1620140821,ACCEPT,OK", dstPort, protocol)
}

func TestParseFlowLine(t *testing.T) {
	key, ok := ParseFlowLine(flowLine("443", "6"))
	if !ok {
		t.Fatalf("Expected valid line to parse")
	}
	want := model.FlowKey{DstPort: "443", Protocol: "TCP"}
	if key != want {
		t.Errorf("Expected %v, got %v", want, key)
	}
}

func TestParseFlowLineDropsMalformed(t *testing.T) {
	cases := []string{
		"",
		"2,123456789012,eni-0a1b2c3d,10.0.0.1,10.0.0.2,43210,443", // 7 fields
		flowLine("443", "99"),  // unregistered protocol number
		flowLine("443", "TCP"), // symbolic name where a number belongs
	}
	for _, line := range cases {
		if key, ok := ParseFlowLine(line); ok {
			t.Errorf("Expected line %q to be dropped, got key %v", line, key)
		}
	}
}

func TestParseFlows(t *testing.T) {
	lines := []string{
		flowLine("80", "6"),
		flowLine("80", "6"),
		flowLine("443", "6"),
		flowLine("53", "17"),
		flowLine("53", "99"), // dropped: unregistered protocol
		"too,few,fields",     // dropped: malformed
	}

	keys := ParseFlows(lines, 1)
	if len(keys) != 4 {
		t.Fatalf("Expected 4 keys (2 lines dropped), got %d", len(keys))
	}

	counts := make(map[model.FlowKey]int)
	for _, key := range keys {
		counts[key]++
	}
	want := map[model.FlowKey]int{
		{DstPort: "80", Protocol: "TCP"}:  2,
		{DstPort: "443", Protocol: "TCP"}: 1,
		{DstPort: "53", Protocol: "UDP"}:  1,
	}
	for key, count := range want {
		if counts[key] != count {
			t.Errorf("Key %v: got count %d, want %d", key, counts[key], count)
		}
	}
	if len(counts) != len(want) {
		t.Errorf("Dropped lines must never produce a key; got keys %v", counts)
	}
}

// Parallel parsing must produce the same multiset as a single worker; only
// the order may differ.
func TestParseFlowsParallelEquivalence(t *testing.T) {
	var lines []string
	for i := 0; i < 5000; i++ {
		lines = append(lines, flowLine(fmt.Sprintf("%d", i%100), "6"))
		if i%7 == 0 {
			lines = append(lines, "malformed")
		}
	}

	sequential := ParseFlows(lines, 1)
	parallel := ParseFlows(lines, 8)

	if len(sequential) != len(parallel) {
		t.Fatalf("Worker count changed result size: %d vs %d", len(sequential), len(parallel))
	}

	toCounts := func(keys []model.FlowKey) map[model.FlowKey]int {
		counts := make(map[model.FlowKey]int)
		for _, key := range keys {
			counts[key]++
		}
		return counts
	}
	seqCounts := toCounts(sequential)
	parCounts := toCounts(parallel)
	if len(seqCounts) != len(parCounts) {
		t.Fatalf("Worker count changed distinct keys: %d vs %d", len(seqCounts), len(parCounts))
	}
	for key, count := range seqCounts {
		if parCounts[key] != count {
			t.Errorf("Key %v: sequential count %d, parallel count %d", key, count, parCounts[key])
		}
	}
}

func TestParseFlowsEmpty(t *testing.T) {
	if keys := ParseFlows(nil, 4); len(keys) != 0 {
		t.Errorf("Expected no keys from empty input, got %d", len(keys))
	}
}

func TestParseTagRules(t *testing.T) {
	lines := []string{
		"80,TCP,Web",
		"443,TCP,Web",
		"5432,TCP,Database",
		"53,UDP", // dropped: only 2 fields
	}

	rules := ParseTagRules(lines)
	if len(rules) != 3 {
		t.Fatalf("Expected 3 rules (1 line dropped), got %d", len(rules))
	}

	if tag := rules[model.FlowKey{DstPort: "80", Protocol: "TCP"}]; tag != "Web" {
		t.Errorf("Expected tag Web for 80/TCP, got %q", tag)
	}
	if tag := rules[model.FlowKey{DstPort: "5432", Protocol: "TCP"}]; tag != "Database" {
		t.Errorf("Expected tag Database for 5432/TCP, got %q", tag)
	}
	if _, ok := rules[model.FlowKey{DstPort: "53", Protocol: "UDP"}]; ok {
		t.Errorf("Dropped line must not contribute a rule")
	}
}

// Duplicate-keyed rules have overwrite semantics: some valid tag wins.
func TestParseTagRulesDuplicateKey(t *testing.T) {
	lines := []string{
		"80,TCP,Web",
		"80,TCP,Frontend",
	}

	rules := ParseTagRules(lines)
	if len(rules) != 1 {
		t.Fatalf("Expected duplicate keys to collapse to 1 rule, got %d", len(rules))
	}
	tag := rules[model.FlowKey{DstPort: "80", Protocol: "TCP"}]
	if tag != "Web" && tag != "Frontend" {
		t.Errorf("Expected one of the supplied tags to win, got %q", tag)
	}
}
