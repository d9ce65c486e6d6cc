// Caller-side helper for off-thread meshing. spec.md §5 keeps the core
// single-threaded but explicitly allows callers to snapshot chunk contents
// (value-typed, via chunk.Clone()) and mesh the snapshots off-thread; this
// file is that caller-side utility, not part of the core's synchronous
// surface.
//
// Grounded on dantero-ps-mini-mc-go's internal/meshing/pool.go WorkerPool,
// which fanned mesh jobs out to a fixed goroutine pool over a buffered
// channel. shipvox keeps that job/result-channel shape but replaces the
// teacher's always-building full remesh with an LRU of the last mesh built
// per chunk coordinate (github.com/hashicorp/golang-lru), keyed by an
// order-independent hash of the chunk's actual cell contents, so a chunk
// that toggles dirty and clean again without changing is not rebuilt — the
// concrete realisation of spec.md §5's "amortised by the renderer's
// update() caller" batching.
package mesher

import (
	"encoding/binary"
	"hash/fnv"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"shipvox/internal/chunk"
	"shipvox/internal/voxel"
	"shipvox/internal/worldgrid"
)

// Job is one chunk's worth of mesh-build work, snapshotted via chunk.Clone
// so it is safe to hand to a worker goroutine while the live World keeps
// mutating concurrently.
type Job struct {
	Coord    chunk.Coord
	Snapshot *chunk.Chunk
}

// Result is the outcome of meshing one Job.
type Result struct {
	Coord chunk.Coord
	Mesh  Mesh
}

// Pool fans meshing work out across a fixed goroutine pool, caching the
// most recent meshes in an LRU keyed by chunk coordinate and checked against
// a content hash of the chunk's cells, so a dirty chunk whose content
// round-tripped back to its previous state doesn't pay for a rebuild.
type Pool struct {
	jobs    chan Job
	results chan Result
	wg      sync.WaitGroup
	cache   *lru.Cache[chunk.Coord, cacheEntry]
	world   *worldgrid.World
	palette *voxel.Palette
}

type cacheEntry struct {
	contentHash uint64
	mesh        Mesh
}

// contentHash fingerprints every non-air cell in c, XOR-combining a per-cell
// fnv64a hash so the result doesn't depend on Chunk.ForEach's unspecified
// iteration order. Two chunks with equal voxel counts but different
// contents (or different positions for the same cells) hash differently,
// unlike a plain VoxelCount comparison.
func contentHash(c *chunk.Chunk) uint64 {
	var h uint64
	var buf [14]byte
	c.ForEach(func(lx, ly, lz int, cell voxel.Cell) {
		binary.LittleEndian.PutUint32(buf[0:4], uint32(lx))
		binary.LittleEndian.PutUint32(buf[4:8], uint32(ly))
		binary.LittleEndian.PutUint32(buf[8:12], uint32(lz))
		binary.LittleEndian.PutUint16(buf[12:14], uint16(cell))

		f := fnv.New64a()
		f.Write(buf[:])
		h ^= f.Sum64()
	})
	return h
}

// NewPool starts a pool of `workers` goroutines that mesh chunks read off
// jobs and write to a results channel of the same capacity as queueSize.
// cacheSize bounds the LRU of recently built meshes.
func NewPool(world *worldgrid.World, palette *voxel.Palette, workers, queueSize, cacheSize int) *Pool {
	cache, _ := lru.New[chunk.Coord, cacheEntry](cacheSize)
	p := &Pool{
		jobs:    make(chan Job, queueSize),
		results: make(chan Result, queueSize),
		cache:   cache,
		world:   world,
		palette: palette,
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		hash := contentHash(job.Snapshot)
		if entry, ok := p.cache.Get(job.Coord); ok && entry.contentHash == hash {
			p.results <- Result{Coord: job.Coord, Mesh: entry.mesh}
			continue
		}
		mesh := Build(p.world, job.Snapshot, p.palette)
		p.cache.Add(job.Coord, cacheEntry{contentHash: hash, mesh: mesh})
		p.results <- Result{Coord: job.Coord, Mesh: mesh}
	}
}

// Submit enqueues a snapshot for meshing. Returns false if the queue is
// full, mirroring the teacher's non-blocking SubmitJob.
func (p *Pool) Submit(job Job) bool {
	select {
	case p.jobs <- job:
		return true
	default:
		return false
	}
}

// Results returns the channel results are delivered on.
func (p *Pool) Results() <-chan Result { return p.results }

// Close stops accepting jobs and waits for in-flight work to drain.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
	close(p.results)
}
