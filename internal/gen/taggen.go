package gen

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"FlowTally/internal/engine/protocol"
	"FlowTally/internal/model"
)

const tagRuleHeader = "dstport,protocol,tag\n"

var (
	tagCategories = []string{"SecurityGroup", "Environment", "Application", "Service"}
	environments  = []string{"Prod", "Dev", "Test", "Staging"}
	applications  = []string{"App1", "App2", "App3", "App4"}
	services      = []string{"Web", "Database", "Cache", "Messaging"}
)

// TagRuleGenerator produces random tag rules with unique (port, protocol)
// combinations.
type TagRuleGenerator struct{}

// NewTagRuleGenerator creates a tag rule generator.
func NewTagRuleGenerator() *TagRuleGenerator {
	return &TagRuleGenerator{}
}

// Generate writes numRules unique tag rules (plus the header) to the given
// CSV file.
func (g *TagRuleGenerator) Generate(numRules int, csvFile string) error {
	protocols := protocol.Names()

	// The uniqueness retry loop can only terminate while free combinations
	// remain: 65535 ports x registered protocols.
	if maxRules := 65535 * len(protocols); numRules > maxRules {
		return fmt.Errorf("cannot generate %d unique tag rules: only %d distinct (port, protocol) combinations exist", numRules, maxRules)
	}

	seen := make(map[model.FlowKey]struct{}, numRules)

	var content strings.Builder
	content.WriteString(tagRuleHeader)

	for i := 0; i < numRules; i++ {
		var key model.FlowKey
		for {
			key = model.FlowKey{
				DstPort:  strconv.Itoa(randomRulePort()),
				Protocol: protocols[rand.Intn(len(protocols))],
			}
			if _, dup := seen[key]; !dup {
				break
			}
		}
		seen[key] = struct{}{}

		fmt.Fprintf(&content, "%s,%s,%s\n", key.DstPort, key.Protocol, randomTag())
	}

	if err := os.WriteFile(csvFile, []byte(content.String()), 0644); err != nil {
		return fmt.Errorf("failed to write tag rule file '%s': %w", csvFile, err)
	}

	log.Println("Tag rules generated successfully!")
	return nil
}

// randomRulePort uses a flatter distribution than the flow generator so a
// realistic share of flows ends up untagged.
func randomRulePort() int {
	probability := rand.Intn(100)
	switch {
	case probability < 70:
		return 1 + rand.Intn(1024)
	case probability < 90:
		return 1025 + rand.Intn(49152-1025)
	default:
		return 49152 + rand.Intn(65536-49152)
	}
}

func randomTag() string {
	switch tagCategories[rand.Intn(len(tagCategories))] {
	case "SecurityGroup":
		return fmt.Sprintf("SG-%d", rand.Intn(1000))
	case "Environment":
		return environments[rand.Intn(len(environments))]
	case "Application":
		return applications[rand.Intn(len(applications))]
	default:
		return services[rand.Intn(len(services))]
	}
}
