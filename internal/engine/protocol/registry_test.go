package protocol

import "testing"

func TestLookup(t *testing.T) {
	cases := []struct {
		id   string
		name string
	}{
		{"1", "ICMP"},
		{"6", "TCP"},
		{"17", "UDP"},
		{"41", "IPv6"},
		{"47", "GRE"},
		{"50", "ESP"},
		{"51", "AH"},
		{"58", "ICMPv6"},
		{"89", "OSPF"},
	}

	for _, c := range cases {
		name, ok := Lookup(c.id)
		if !ok {
			t.Errorf("Lookup(%q) not found, want %q", c.id, c.name)
			continue
		}
		if name != c.name {
			t.Errorf("Lookup(%q) = %q, want %q", c.id, name, c.name)
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	for _, id := range []string{"99", "0", "", "TCP", "6 "} {
		if name, ok := Lookup(id); ok {
			t.Errorf("Lookup(%q) = %q, want not found", id, name)
		}
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != 9 {
		t.Fatalf("Expected 9 protocol names, got %d", len(names))
	}
	numbers := Numbers()
	if len(numbers) != 9 {
		t.Fatalf("Expected 9 protocol numbers, got %d", len(numbers))
	}
}
