package protocol

import "sort"

// protocolNames maps IP protocol numbers, in the decimal string form they
// take in flow-log records, to their symbolic names. The table is built once
// and never mutated, so unrestricted concurrent reads are safe.
var protocolNames = map[string]string{
	"1":  "ICMP",
	"6":  "TCP",
	"17": "UDP",
	"41": "IPv6",
	"47": "GRE",
	"50": "ESP",
	"51": "AH",
	"58": "ICMPv6",
	"89": "OSPF",
}

// Lookup resolves a numeric protocol identifier to its symbolic name.
// An unknown identifier returns ok=false; callers should drop the record
// rather than treat this as an error.
func Lookup(numericID string) (string, bool) {
	name, ok := protocolNames[numericID]
	return name, ok
}

// Names returns the symbolic names of all registered protocols, sorted.
func Names() []string {
	names := make([]string, 0, len(protocolNames))
	for _, name := range protocolNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Numbers returns the numeric identifiers of all registered protocols, sorted.
func Numbers() []string {
	numbers := make([]string, 0, len(protocolNames))
	for id := range protocolNames {
		numbers = append(numbers, id)
	}
	sort.Strings(numbers)
	return numbers
}
