package perft

import (
	"sync"
	"sync/atomic"
)

// Number of shards for table locking (power of 2 for fast modulo)
const tableShardCount = 256
const tableShardMask = tableShardCount - 1

// tableEntry caches the subtree size of one position at one depth.
type tableEntry struct {
	key   uint64 // full Zobrist key for verification
	nodes uint64
	depth int32
}

// Table is a fixed-size, always-replace cache of subtree counts keyed by
// position hash and depth. It is safe for concurrent use, so one table can
// serve every worker of RunParallel.
type Table struct {
	entries []tableEntry
	shards  [tableShardCount]sync.RWMutex
	mask    uint64

	hits   atomic.Uint64
	probes atomic.Uint64
}

// NewTable creates a table using about sizeMB megabytes.
func NewTable(sizeMB int) *Table {
	const entrySize = 24
	n := roundDownToPowerOf2(uint64(max(sizeMB, 1)) * 1024 * 1024 / entrySize)
	return &Table{
		entries: make([]tableEntry, n),
		mask:    n - 1,
	}
}

// roundDownToPowerOf2 rounds n down to the nearest power of 2.
func roundDownToPowerOf2(n uint64) uint64 {
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

func (t *Table) probe(hash uint64, depth int) (uint64, bool) {
	t.probes.Add(1)
	idx := hash & t.mask
	shard := &t.shards[idx&tableShardMask]

	shard.RLock()
	e := t.entries[idx]
	shard.RUnlock()

	if e.key == hash && int(e.depth) == depth {
		t.hits.Add(1)
		return e.nodes, true
	}
	return 0, false
}

func (t *Table) store(hash uint64, depth int, nodes uint64) {
	idx := hash & t.mask
	shard := &t.shards[idx&tableShardMask]

	shard.Lock()
	t.entries[idx] = tableEntry{key: hash, nodes: nodes, depth: int32(depth)}
	shard.Unlock()
}

// Stats returns the number of probes and of hits so far.
func (t *Table) Stats() (probes, hits uint64) {
	return t.probes.Load(), t.hits.Load()
}

// Clear empties the table and resets its statistics.
func (t *Table) Clear() {
	clear(t.entries)
	t.hits.Store(0)
	t.probes.Store(0)
}
