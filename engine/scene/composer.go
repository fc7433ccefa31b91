package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/geometry"
	"github.com/spaghettifunk/tessera/engine/math"
	"github.com/spaghettifunk/tessera/engine/surf"
)

// ComposerConfig wires the per-file pipeline and the composition policy
// together.
type ComposerConfig struct {
	// Root is the directory relative deck paths resolve against. Absolute
	// paths in the deck are used as-is.
	Root string
	// Parser, Dedupe and Repair flow unchanged into every per-file pipeline.
	Parser surf.ParserConfig
	Dedupe geometry.DedupeConfig
	Repair geometry.RepairConfig
	// Lenient skips entries that fail to load and reports them, instead of
	// aborting the whole composition on the first failure.
	Lenient bool
	// Workers bounds the per-file fan-out. Zero or negative selects one
	// worker per CPU.
	Workers int
}

// DefaultComposerConfig composes strictly around the default pipeline, one
// worker per CPU.
func DefaultComposerConfig() ComposerConfig {
	return ComposerConfig{
		Dedupe: geometry.DefaultDedupeConfig(),
		Repair: geometry.DefaultRepairConfig(),
	}
}

// Composer turns a deck and its surf files into a Scene.
type Composer struct {
	config  ComposerConfig
	parser  *surf.Parser
	metrics *core.IngestMetrics
}

func NewComposer(config ComposerConfig) *Composer {
	return &Composer{
		config:  config,
		parser:  surf.NewParser(config.Parser),
		metrics: core.NewIngestMetrics(),
	}
}

// Metrics snapshots the ingestion totals accumulated so far.
func (c *Composer) Metrics() core.MetricsSnapshot {
	return c.metrics.Snapshot()
}

// Compose parses the deck at deckPath, ingests every referenced surf file
// and assembles the scene. Entries are processed concurrently but the
// outcome matches a serial run: objects keep deck order, and when strict
// composition fails the reported error is the first failing entry in deck
// order, not the first to finish. In lenient mode failed entries come back
// in skipped and composition continues; a scene left with no objects at all
// fails with ErrEmptyScene.
func (c *Composer) Compose(deckPath string) (*Scene, []SkippedEntry, error) {
	clock := core.NewClock()

	entries, skipped, err := ParseDeckFile(deckPath, c.config.Lenient)
	if err != nil {
		return nil, nil, err
	}
	core.LogInfo("composing %s: %d entries", deckPath, len(entries))
	clock.Mark("parse-deck")

	results := c.ingestAll(entries)
	clock.Mark("ingest")

	scene := NewScene(deckPath)
	for i := range results {
		if err := results[i].err; err != nil {
			if !c.config.Lenient {
				return nil, nil, err
			}
			core.LogWarn("skipping %s: %v", entries[i].Path, err)
			skipped = append(skipped, SkippedEntry{Path: entries[i].Path, Line: entries[i].Line, Err: err})
			continue
		}
		scene.AddObject(results[i].object)
	}

	if len(scene.Objects) == 0 {
		err := fmt.Errorf("composing %s: %w", deckPath, core.ErrEmptyScene)
		core.LogError(err.Error())
		return nil, skipped, err
	}

	if bounds, ok := scene.Bounds(); ok {
		core.LogInfo("scene %s: %d objects, %d faces, bounds min=(%g %g %g) max=(%g %g %g)",
			scene.ID, len(scene.Objects), scene.TotalFaces(),
			bounds.Min.X, bounds.Min.Y, bounds.Min.Z,
			bounds.Max.X, bounds.Max.Y, bounds.Max.Z)
	}
	clock.Mark("assemble")
	core.LogInfo("composed %s in %s", deckPath, clock.Total())
	return scene, skipped, nil
}

// IngestFile runs the per-file pipeline on a single surf file outside any
// deck. The path resolves against Root like a deck entry would.
func (c *Composer) IngestFile(path string) (*SceneObject, error) {
	return c.ingestEntry(Entry{Path: path})
}

type entryResult struct {
	object *SceneObject
	err    error
}

// ingestAll fans the entries out over a bounded worker pool. Results land in
// a slice indexed by entry position so completion order never shows.
//
// In strict mode workers stop picking up entries once a failure is recorded,
// but only entries AFTER the lowest failed index are skipped: everything
// before it still completes, so the error reported by the caller's in-order
// scan is identical between serial and concurrent runs.
func (c *Composer) ingestAll(entries []Entry) []entryResult {
	results := make([]entryResult, len(entries))
	if len(entries) == 0 {
		return results
	}

	workers := c.config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = math.Clamp(workers, 1, 4*runtime.NumCPU())
	if workers > len(entries) {
		workers = len(entries)
	}

	var minFailed atomic.Int64
	minFailed.Store(int64(len(entries)))

	indexes := make(chan int, len(entries))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexes {
				if !c.config.Lenient && int64(idx) > minFailed.Load() {
					continue
				}
				object, err := c.ingestEntry(entries[idx])
				results[idx] = entryResult{object: object, err: err}
				if err != nil {
					c.metrics.RecordFailure()
					for {
						cur := minFailed.Load()
						if int64(idx) >= cur || minFailed.CompareAndSwap(cur, int64(idx)) {
							break
						}
					}
				}
			}
		}()
	}
	for i := range entries {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	return results
}

// ingestEntry resolves, parses, welds, repairs and places one surf file.
func (c *Composer) ingestEntry(entry Entry) (*SceneObject, error) {
	resolved := entry.Path
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(c.config.Root, resolved)
	}
	info, err := os.Stat(resolved)
	if err != nil || info.IsDir() {
		merr := &core.MissingFileError{Declared: entry.Path, Resolved: resolved}
		core.LogError(merr.Error())
		return nil, merr
	}

	clock := core.NewClock()
	res, err := c.parser.ParseFile(resolved)
	if err != nil {
		return nil, err
	}
	clock.Mark("parse")

	mesh := geometry.Deduplicate(res.Triangles, c.config.Dedupe)
	unique := len(mesh.Vertices)
	merged := 3*len(res.Triangles) - unique
	clock.Mark("dedupe")

	name := filepath.Base(resolved)
	stats, err := geometry.Repair(mesh, name, c.config.Repair)
	if err != nil {
		return nil, err
	}
	clock.Mark("repair")

	mesh.Translate(entry.Translation)

	object := &SceneObject{
		Name:        name,
		Source:      entry.Path,
		Translation: entry.Translation,
		Mesh:        mesh,
		Stats: ObjectStats{
			RawTriangles:   len(res.Triangles),
			DeclaredCount:  res.DeclaredCount,
			UniqueVertices: unique,
			MergedVertices: merged,
			DroppedFaces:   stats.DroppedFaces,
			Elapsed:        clock.Total(),
		},
	}
	c.metrics.RecordFile(len(res.Triangles), unique, merged, stats.DroppedFaces)
	core.LogDebug("ingested %s: %d triangles, %d vertices, %d faces dropped in %s",
		name, len(res.Triangles), unique, stats.DroppedFaces, clock.Total())
	return object, nil
}
