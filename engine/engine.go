package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spaghettifunk/tessera/engine/assets"
	"github.com/spaghettifunk/tessera/engine/config"
	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/geometry"
	"github.com/spaghettifunk/tessera/engine/scene"
	"github.com/spaghettifunk/tessera/engine/surf"
)

type Stage uint8

const (
	// Pipeline has been constructed but not initialized
	StageUninitialized Stage = iota
	// Pipeline is ready to run
	StageInitialized
	// Pipeline is composing or watching
	StageRunning
	// Pipeline is in the process of shutting down
	StageShuttingDown
)

// ManifestName is the scene summary written next to the cleaned files.
const ManifestName = "scene.toml"

// settleDelay coalesces bursts of file events before recomposing.
const settleDelay = 300 * time.Millisecond

// Pipeline ties the subsystems together: configuration, the scene composer,
// the output writer and, in watch mode, the asset watcher.
type Pipeline struct {
	currentStage Stage
	config       config.Config
	composer     *scene.Composer
	watcher      *assets.Watcher

	done      chan struct{}
	closeOnce sync.Once
}

// New builds a pipeline from a resolved configuration. watch enables the
// recompose-on-change loop.
func New(cfg config.Config, watch bool) (*Pipeline, error) {
	if err := core.SetLogLevel(cfg.LogLevel); err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	composerConfig := scene.ComposerConfig{
		Root:    cfg.Paths.Root,
		Lenient: cfg.Compose.Lenient,
		Workers: cfg.Compose.Workers,
	}
	composerConfig.Parser.StrictCount = cfg.Mesh.StrictCount
	composerConfig.Parser.StrictTrailing = cfg.Mesh.StrictTrailing
	composerConfig.Dedupe.Tolerance = cfg.Mesh.VertexTolerance
	composerConfig.Repair.DegenerateArea = cfg.Mesh.DegenerateArea
	composerConfig.Repair.Compact = cfg.Mesh.Compact
	if cfg.Mesh.FlipAxis != "" {
		axis, err := geometry.ParseAxis(cfg.Mesh.FlipAxis)
		if err != nil {
			core.LogError(err.Error())
			return nil, err
		}
		composerConfig.Repair.Flip = axis
	}

	p := &Pipeline{
		currentStage: StageUninitialized,
		config:       cfg,
		composer:     scene.NewComposer(composerConfig),
		done:         make(chan struct{}),
	}

	if watch {
		w, err := assets.NewWatcher()
		if err != nil {
			core.LogError(err.Error())
			return nil, err
		}
		p.watcher = w
	}

	return p, nil
}

// Initialize prepares the output directory and, in watch mode, starts
// watching the scene root and the deck.
func (p *Pipeline) Initialize() error {
	if err := os.MkdirAll(p.config.Paths.Output, 0o755); err != nil {
		core.LogError(err.Error())
		return err
	}

	if p.watcher != nil {
		if err := p.watcher.Initialize(p.config.Paths.Root); err != nil {
			return err
		}
		// The deck may live outside the scene root.
		if deckDir := filepath.Dir(p.config.Paths.Deck); !strings.HasPrefix(deckDir, p.config.Paths.Root) {
			if err := p.watcher.Add(deckDir); err != nil {
				core.LogWarn("watching deck directory %s: %v", deckDir, err)
			}
		}
	}

	p.currentStage = StageInitialized
	return nil
}

// Run composes the configured deck once and, with a watcher attached, keeps
// recomposing whenever a surf or deck file changes until Shutdown.
func (p *Pipeline) Run() error {
	if p.config.Paths.Deck == "" {
		err := fmt.Errorf("no deck configured")
		core.LogError(err.Error())
		return err
	}
	p.currentStage = StageRunning

	err := p.composeOnce()
	if p.watcher == nil {
		return err
	}
	if err != nil {
		// In watch mode a broken scene is not fatal, the next edit may fix it.
		core.LogError("composition failed, watching for changes: %v", err)
	}

	for {
		select {
		case info, ok := <-p.watcher.Changes():
			if !ok {
				return nil
			}
			core.LogInfo("%s changed (%s), recomposing", info.Path, info.Kind)
			p.settle()
			if err := p.composeOnce(); err != nil {
				core.LogError("composition failed, watching for changes: %v", err)
			}
		case werr, ok := <-p.watcher.Errors():
			if !ok {
				return nil
			}
			core.LogWarn("watcher: %v", werr)
		case <-p.done:
			return nil
		}
	}
}

// settle absorbs the burst of events editors emit on save, so one save
// triggers one recomposition.
func (p *Pipeline) settle() {
	timer := time.NewTimer(settleDelay)
	defer timer.Stop()
	for {
		select {
		case _, ok := <-p.watcher.Changes():
			if !ok {
				return
			}
			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(settleDelay)
		case <-timer.C:
			return
		}
	}
}

// Shutdown stops the watch loop and releases the watcher.
func (p *Pipeline) Shutdown() error {
	p.currentStage = StageShuttingDown
	p.closeOnce.Do(func() {
		close(p.done)
	})
	if p.watcher != nil {
		p.watcher.Shutdown()
	}
	return nil
}

// CleanFiles runs the per-file pipeline on explicitly named surf files and
// writes the cleaned copies to the output directory, skipping failures in
// lenient mode.
func (p *Pipeline) CleanFiles(paths []string) error {
	failed := 0
	for _, path := range paths {
		object, err := p.composer.IngestFile(path)
		if err != nil {
			if !p.config.Compose.Lenient {
				return err
			}
			core.LogWarn("skipping %s: %v", path, err)
			failed++
			continue
		}

		out := filepath.Join(p.config.Paths.Output, surf.CleanedName(object.Name))
		if err := surf.WriteMeshFile(out, object.Mesh); err != nil {
			return err
		}
		core.LogInfo("cleaned %s: %d faces, %d vertices -> %s",
			object.Name, len(object.Mesh.Faces), len(object.Mesh.Vertices), out)
	}

	p.logMetrics()
	if failed == len(paths) {
		err := fmt.Errorf("cleaning %d file(s): %w", len(paths), core.ErrEmptyScene)
		core.LogError(err.Error())
		return err
	}
	return nil
}

// composeOnce builds the scene and writes the cleaned surfs plus the
// manifest.
func (p *Pipeline) composeOnce() error {
	clock := core.NewClock()

	composed, skipped, err := p.composer.Compose(p.config.Paths.Deck)
	if err != nil {
		return err
	}
	for _, skip := range skipped {
		core.LogWarn("deck line %d: left out %s: %v", skip.Line, skip.Path, skip.Err)
	}

	if err := p.writeOutputs(composed); err != nil {
		return err
	}

	p.logMetrics()
	core.LogInfo("run %s finished in %s", composed.ID, clock.Mark("run"))
	return nil
}

// writeOutputs emits one cleaned surf per object and the scene manifest.
// Objects sharing a source name get an index suffix so nothing is
// overwritten.
func (p *Pipeline) writeOutputs(composed *scene.Scene) error {
	cleaned := make(map[int]string, len(composed.Objects))
	used := make(map[string]bool, len(composed.Objects))

	for i, object := range composed.Objects {
		name := surf.CleanedName(object.Name)
		if used[name] {
			ext := filepath.Ext(name)
			name = strings.TrimSuffix(name, ext) + "_" + strconv.Itoa(i) + ext
		}
		used[name] = true

		if err := surf.WriteMeshFile(filepath.Join(p.config.Paths.Output, name), object.Mesh); err != nil {
			return err
		}
		cleaned[i] = name
	}

	return scene.WriteManifest(
		filepath.Join(p.config.Paths.Output, ManifestName),
		scene.BuildManifest(composed, cleaned),
	)
}

func (p *Pipeline) logMetrics() {
	snap := p.composer.Metrics()
	core.LogInfo("totals: %d files (%d failed), %d triangles read, %d vertices kept, %d merged, %d faces dropped",
		snap.FilesParsed, snap.FilesFailed, snap.TrianglesRead,
		snap.VerticesUnique, snap.VerticesMerged, snap.FacesDropped)
}
