package gen

import (
	"bufio"
	"fmt"
	"log"
	"math/rand"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"
)

const (
	batchSize     = 1000
	flowLogHeader = "version,account-id,interface-id,srcaddr,dstaddr,srcport,dstport,protocol,packets,bytes,start,end,action,log-status\n"

	yearInSeconds = 31536000
)

var (
	flowProtocols = []string{"1", "6", "17", "41", "47", "50", "51", "58", "89"}
	logStatuses   = []string{"OK", "NODATA", "SKIPDATA"}
)

// FlowLogGenerator produces synthetic flow-log records in batches across a
// fixed-size worker pool. Each batch is built unsynchronized; only the
// append to the shared writer is serialized.
type FlowLogGenerator struct {
	numWorkers  int
	waitTimeout time.Duration
}

// NewFlowLogGenerator creates a generator. numWorkers <= 0 defaults to
// NumCPU; waitTimeout <= 0 defaults to one hour.
func NewFlowLogGenerator(numWorkers int, waitTimeout time.Duration) *FlowLogGenerator {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if waitTimeout <= 0 {
		waitTimeout = time.Hour
	}
	return &FlowLogGenerator{numWorkers: numWorkers, waitTimeout: waitTimeout}
}

// Generate writes numRecords synthetic flow-log records (plus the header) to
// the given CSV file. A batch that fails to write is logged and does not
// abort sibling batches; open/flush failures are fatal for the run.
func (g *FlowLogGenerator) Generate(numRecords int, csvFile string) error {
	file, err := os.Create(csvFile)
	if err != nil {
		return fmt.Errorf("failed to create flow log file '%s': %w", csvFile, err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if _, err := writer.WriteString(flowLogHeader); err != nil {
		return fmt.Errorf("failed to write header to '%s': %w", csvFile, err)
	}

	var mu sync.Mutex
	var wg sync.WaitGroup

	starts := make(chan int)
	wg.Add(g.numWorkers)
	for i := 0; i < g.numWorkers; i++ {
		go func() {
			defer wg.Done()
			for start := range starts {
				end := start + batchSize
				if end > numRecords {
					end = numRecords
				}
				var batch strings.Builder
				for j := start; j < end; j++ {
					batch.WriteString(randomFlowLogRecord())
				}

				mu.Lock()
				_, werr := writer.WriteString(batch.String())
				mu.Unlock()
				if werr != nil {
					log.Printf("Error writing batch to '%s': %v", csvFile, werr)
				}
			}
		}()
	}

	for i := 0; i < numRecords; i += batchSize {
		starts <- i
	}
	close(starts)

	if !waitWithTimeout(&wg, g.waitTimeout) {
		log.Printf("Warning: flow log generation did not finish within %s, proceeding with partial output.", g.waitTimeout)
	}

	// On the timed-out path workers may still be appending; the flush must
	// hold the same mutex as the batch writes.
	mu.Lock()
	flushErr := writer.Flush()
	mu.Unlock()
	if flushErr != nil {
		return fmt.Errorf("failed to flush flow log file '%s': %w", csvFile, flushErr)
	}

	log.Println("Flow log data generated successfully!")
	return nil
}

// waitWithTimeout waits for the group to finish, bounded by the timeout.
// Returns false if the timeout expired first.
func waitWithTimeout(wg *sync.WaitGroup, timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

func randomFlowLogRecord() string {
	srcPort := randomFlowPort()
	dstPort := randomFlowPort()
	packets := rand.Intn(1000) + 1
	bytes := packets * (rand.Intn(100) + 20)
	start := time.Now().Unix() - int64(rand.Intn(yearInSeconds))
	end := start + int64(rand.Intn(600))

	return fmt.Sprintf("2,%s,eni-%s,%s,%s,%d,%d,%s,%d,%d,%d,%d,%s,%s\n",
		randomAccountID(),
		randomHex(8),
		randomPrivateIP(),
		randomPrivateIP(),
		srcPort,
		dstPort,
		flowProtocols[rand.Intn(len(flowProtocols))],
		packets,
		bytes,
		start,
		end,
		randomAction(),
		logStatuses[rand.Intn(len(logStatuses))],
	)
}

// randomPrivateIP picks an address from the RFC 1918 ranges.
func randomPrivateIP() string {
	privateNetworks := []int{10, 172, 192}
	first := privateNetworks[rand.Intn(len(privateNetworks))]
	second := rand.Intn(256)
	if first == 172 {
		second = 16 + rand.Intn(16)
	}
	return fmt.Sprintf("%d.%d.%d.%d", first, second, rand.Intn(256), rand.Intn(256))
}

// randomFlowPort skews heavily toward well-known ports.
func randomFlowPort() int {
	probability := rand.Intn(100)
	switch {
	case probability < 90:
		return 1 + rand.Intn(1024)
	case probability < 95:
		return 1025 + rand.Intn(49152-1025)
	default:
		return 49152 + rand.Intn(65536-49152)
	}
}

func randomHex(length int) string {
	var hex strings.Builder
	for i := 0; i < length; i++ {
		fmt.Fprintf(&hex, "%x", rand.Intn(16))
	}
	return hex.String()
}

func randomAccountID() string {
	var id strings.Builder
	for i := 0; i < 12; i++ {
		fmt.Fprintf(&id, "%d", rand.Intn(10))
	}
	return id.String()
}

func randomAction() string {
	if rand.Intn(2) == 0 {
		return "ACCEPT"
	}
	return "REJECT"
}
