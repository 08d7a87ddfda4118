package parallel

import "fmt"

// ChunkPolicy decides where the remainder goes when a batch does not divide
// evenly across workers.
type ChunkPolicy string

const (
	// ChunkBalanced hands the remainder out one item per chunk, so chunk
	// sizes differ by at most one.
	ChunkBalanced ChunkPolicy = "balanced"
	// ChunkTail appends the whole remainder to the last chunk.
	ChunkTail ChunkPolicy = "tail"
)

// ParseChunkPolicy validates a policy name. The empty string selects
// ChunkBalanced.
func ParseChunkPolicy(s string) (ChunkPolicy, error) {
	switch ChunkPolicy(s) {
	case "", ChunkBalanced:
		return ChunkBalanced, nil
	case ChunkTail:
		return ChunkTail, nil
	}
	return "", fmt.Errorf("unknown chunking policy %q (want %q or %q)", s, ChunkBalanced, ChunkTail)
}

// ChunkSizes returns the size of each of the workers chunks for n items.
// The result always has max(workers, 1) entries; some may be zero when
// n < workers.
func ChunkSizes(n, workers int, policy ChunkPolicy) []int {
	if workers < 1 {
		workers = 1
	}
	if n < 0 {
		n = 0
	}
	base, rem := n/workers, n%workers
	sizes := make([]int, workers)
	for i := range sizes {
		sizes[i] = base
	}
	if policy == ChunkTail {
		sizes[workers-1] += rem
		return sizes
	}
	for i := 0; i < rem; i++ {
		sizes[i]++
	}
	return sizes
}

// Chunk splits items into contiguous chunks according to ChunkSizes. The
// chunks share the backing array of items.
func Chunk[T any](items []T, workers int, policy ChunkPolicy) [][]T {
	sizes := ChunkSizes(len(items), workers, policy)
	chunks := make([][]T, len(sizes))
	start := 0
	for i, size := range sizes {
		chunks[i] = items[start : start+size : start+size]
		start += size
	}
	return chunks
}
