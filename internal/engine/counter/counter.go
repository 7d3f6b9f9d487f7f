package counter

import (
	"hash/fnv"
	"runtime"
	"sync"

	"FlowTally/internal/model"
)

const defaultShardCount = 256

// keyShard is a part of a sharded frequency table over flow keys.
type keyShard struct {
	counts map[model.FlowKey]uint64
	mu     sync.Mutex
}

// KeyCounter is a sharded concurrent frequency table keyed by flow key.
// Sharding keeps lock contention low when many workers increment at once;
// the merged result is a deterministic function of the input multiset.
type KeyCounter struct {
	shards     []*keyShard
	shardCount uint32
}

// NewKeyCounter creates an empty sharded key counter.
func NewKeyCounter() *KeyCounter {
	c := &KeyCounter{
		shards:     make([]*keyShard, defaultShardCount),
		shardCount: defaultShardCount,
	}
	for i := 0; i < defaultShardCount; i++ {
		c.shards[i] = &keyShard{counts: make(map[model.FlowKey]uint64)}
	}
	return c
}

func (c *KeyCounter) getShard(key model.FlowKey) *keyShard {
	hasher := fnv.New32a()
	hasher.Write([]byte(key.String()))
	return c.shards[hasher.Sum32()%c.shardCount]
}

// Inc increments the count for a key, inserting it on first sight.
func (c *KeyCounter) Inc(key model.FlowKey) {
	shard := c.getShard(key)
	shard.mu.Lock()
	shard.counts[key]++
	shard.mu.Unlock()
}

// Snapshot merges all shards into a single frequency table.
func (c *KeyCounter) Snapshot() map[model.FlowKey]uint64 {
	merged := make(map[model.FlowKey]uint64)
	for _, shard := range c.shards {
		shard.mu.Lock()
		for key, count := range shard.counts {
			merged[key] += count
		}
		shard.mu.Unlock()
	}
	return merged
}

// tagShard is a part of a sharded frequency table over tag strings.
type tagShard struct {
	counts map[string]uint64
	mu     sync.Mutex
}

// TagCounter is a sharded concurrent frequency table keyed by tag.
type TagCounter struct {
	shards     []*tagShard
	shardCount uint32
}

// NewTagCounter creates an empty sharded tag counter.
func NewTagCounter() *TagCounter {
	c := &TagCounter{
		shards:     make([]*tagShard, defaultShardCount),
		shardCount: defaultShardCount,
	}
	for i := 0; i < defaultShardCount; i++ {
		c.shards[i] = &tagShard{counts: make(map[string]uint64)}
	}
	return c
}

func (c *TagCounter) getShard(tag string) *tagShard {
	hasher := fnv.New32a()
	hasher.Write([]byte(tag))
	return c.shards[hasher.Sum32()%c.shardCount]
}

// Inc increments the count for a tag, inserting it on first sight.
func (c *TagCounter) Inc(tag string) {
	shard := c.getShard(tag)
	shard.mu.Lock()
	shard.counts[tag]++
	shard.mu.Unlock()
}

// Snapshot merges all shards into a single frequency table.
func (c *TagCounter) Snapshot() map[string]uint64 {
	merged := make(map[string]uint64)
	for _, shard := range c.shards {
		shard.mu.Lock()
		for tag, count := range shard.counts {
			merged[tag] += count
		}
		shard.mu.Unlock()
	}
	return merged
}

// CountKeys groups a flow key sequence by identity and counts occurrences.
// Every distinct key present in the input appears exactly once in the
// result with its multiplicity; counts always sum to len(keys).
func CountKeys(keys []model.FlowKey, numWorkers int) map[model.FlowKey]uint64 {
	c := NewKeyCounter()
	forEachChunk(len(keys), numWorkers, func(start, end int) {
		for _, key := range keys[start:end] {
			c.Inc(key)
		}
	})
	return c.Snapshot()
}

// CountTags looks up each flow key in the rule map, substituting the
// UNTAGGED sentinel for keys matching no rule, and counts occurrences per
// tag. Every flow contributes to exactly one bucket. The rule map is only
// read, so sharing it across workers is safe.
func CountTags(keys []model.FlowKey, rules map[model.FlowKey]string, numWorkers int) map[string]uint64 {
	c := NewTagCounter()
	forEachChunk(len(keys), numWorkers, func(start, end int) {
		for _, key := range keys[start:end] {
			tag, ok := rules[key]
			if !ok {
				tag = model.Untagged
			}
			c.Inc(tag)
		}
	})
	return c.Snapshot()
}

// forEachChunk partitions [0,n) into contiguous chunks and runs fn on each
// chunk from a fixed pool of workers, waiting for all of them to finish.
// Grouping-and-counting is associative and commutative, so the partition
// boundaries never affect the merged result.
func forEachChunk(n, numWorkers int, fn func(start, end int)) {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > n {
		numWorkers = n
	}
	if numWorkers <= 1 {
		fn(0, n)
		return
	}

	chunkSize := (n + numWorkers - 1) / numWorkers
	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go func(i int) {
			defer wg.Done()
			start := i * chunkSize
			end := start + chunkSize
			if end > n {
				end = n
			}
			if start < end {
				fn(start, end)
			}
		}(i)
	}
	wg.Wait()
}
