package batch

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/antaloor-vdf/internal/convert"
	"github.com/Faultbox/antaloor-vdf/internal/logger"
	"github.com/Faultbox/antaloor-vdf/internal/texture"
)

// Config holds the shared resources of a batch run.
type Config struct {
	OutputDir   string
	MetadataDir string
	TexIndex    texture.Index
	Workers     int
	FlattenDirs bool // write everything into OutputDir, ignoring RelDir
}

// Result holds the outcome of converting one pair.
type Result struct {
	Display   string
	OBJPath   string
	HasLOD    bool
	Vertices  int
	Triangles int
	Success   bool
	Error     string
}

// Run converts all pairs using a worker pool and reports progress
// every two seconds.
func Run(cfg Config, pairs []Pair) []Result {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	total := len(pairs)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					rate := float64(p) / time.Since(start).Seconds()
					logger.Info("batch progress",
						zap.Int64("done", p),
						zap.Int("total", total),
						zap.Float64("models_per_sec", rate))
				}
			}
		}
	}()

	pairChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range pairChan {
				results[idx] = processPair(cfg, pairs[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range pairs {
		pairChan <- i
	}
	close(pairChan)

	wg.Wait()
	close(done)

	return results
}

func processPair(cfg Config, pair Pair) Result {
	res := Result{Display: pair.Display, HasLOD: pair.LOD != ""}

	if _, err := os.Stat(pair.Base); err != nil {
		res.Error = "VDF not found: " + pair.Base
		return res
	}

	outDir := cfg.OutputDir
	metaDir := cfg.MetadataDir
	if !cfg.FlattenDirs && pair.RelDir != "" {
		outDir = filepath.Join(outDir, pair.RelDir)
		if metaDir != "" {
			metaDir = filepath.Join(metaDir, pair.RelDir)
		}
	}

	objPath, stats, err := convert.ExportVDF(pair.Base, pair.LOD, outDir, metaDir, cfg.TexIndex)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	res.OBJPath = objPath
	res.Vertices = stats.TotalVertices
	res.Triangles = stats.TotalTriangles
	res.Success = true
	return res
}
