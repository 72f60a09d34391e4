package pool

// WordPool manages []uint64 pooling with size-based buckets. Encoded
// containers are word buffers, so buffers are sized in words rather than
// bytes. Requests above the largest bucket are allocated directly.
type WordPool struct {
	pools []*Pool[[]uint64]
	sizes []int
}

// NewWordPool creates a pool with power-of-4 buckets from 64 words (512B)
// to 2M words (16MB).
func NewWordPool() *WordPool {
	sizes := []int{
		64,      // 512B
		256,     // 2KB
		1024,    // 8KB
		4096,    // 32KB
		16384,   // 128KB
		65536,   // 512KB
		262144,  // 2MB
		1048576, // 8MB
		2097152, // 16MB
	}

	pools := make([]*Pool[[]uint64], len(sizes))
	for i, size := range sizes {
		pools[i] = New(func() []uint64 { return make([]uint64, 0, size) }, nil)
	}
	return &WordPool{pools: pools, sizes: sizes}
}

// Get returns an empty slice with capacity of at least n words.
//
// Example:
//
//	words := pool.GlobalWordPool.Get(encoding.LengthInWords(c))
//	defer pool.GlobalWordPool.Put(words)
func (p *WordPool) Get(n int) []uint64 {
	for i, s := range p.sizes {
		if s >= n {
			return p.pools[i].Get()[:0]
		}
	}
	return make([]uint64, 0, n)
}

// Put returns words to the bucket matching its capacity. Slices that do
// not match a bucket, such as ones grown past their original capacity, are
// left to the garbage collector.
func (p *WordPool) Put(words []uint64) {
	size := cap(words)
	for i, s := range p.sizes {
		if s == size {
			p.pools[i].Put(words[:0])
			return
		}
	}
}

// Stats returns per-bucket statistics keyed by capacity in words.
func (p *WordPool) Stats() map[int]Stats {
	out := make(map[int]Stats, len(p.sizes))
	for i, s := range p.sizes {
		out[s] = p.pools[i].Stats()
	}
	return out
}

// GlobalWordPool is shared by encoders across the process.
var GlobalWordPool = NewWordPool()

// GetGlobalStats returns statistics for the global pools: "buffer" for
// BufferPool and "words" for all GlobalWordPool buckets combined.
//
// Example:
//
//	for name, stat := range pool.GetGlobalStats() {
//	    fmt.Printf("%s pool: %d in use, %.2f%% hit rate\n", name, stat.InUse, stat.HitRate()*100)
//	}
func GetGlobalStats() map[string]Stats {
	var words Stats
	for _, s := range GlobalWordPool.Stats() {
		words.Allocated += s.Allocated
		words.InUse += s.InUse
		words.Hits += s.Hits
		words.Misses += s.Misses
	}
	return map[string]Stats{
		"buffer": BufferPool.Stats(),
		"words":  words,
	}
}
