// Package pipeline orchestrates discovery and per-file extraction into one
// RepositoryData aggregate.
package pipeline

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"

	"github.com/DeusData/repo-graph-ingest/internal/discover"
	"github.com/DeusData/repo-graph-ingest/internal/graph"
	"github.com/DeusData/repo-graph-ingest/internal/lang"
	"github.com/DeusData/repo-graph-ingest/internal/parser"
)

// Pipeline drives one extraction run over a repository.
type Pipeline struct {
	ctx      context.Context
	RepoPath string
	opts     *discover.Options
}

// Stats summarizes one run. Failed counts files that could not be read or
// parsed; those are skipped, never fatal.
type Stats struct {
	Discovered int
	Parsed     int
	Failed     int
}

// New creates a Pipeline. opts may be nil for defaults.
func New(ctx context.Context, repoPath string, opts *discover.Options) *Pipeline {
	return &Pipeline{ctx: ctx, RepoPath: repoPath, opts: opts}
}

// parseResult holds the output of one pure file parse (no shared state).
type parseResult struct {
	file discover.FileInfo
	data *graph.RepositoryData
	hash string
	err  error
}

// Run discovers source files, parses them in parallel, and merges the
// per-file results sequentially in discovery order. The ordered merge keeps
// the name→id table's last-write-wins behavior deterministic regardless of
// worker scheduling.
func (p *Pipeline) Run() (*graph.RepositoryData, Stats, error) {
	slog.Info("pipeline.start", "path", p.RepoPath)

	files, err := discover.Discover(p.ctx, p.RepoPath, p.opts)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("discover: %w", err)
	}
	slog.Info("pipeline.discovered", "files", len(files))

	// Stage 1: parallel parse (CPU-bound, no shared state)
	results := make([]*parseResult, len(files))
	numWorkers := runtime.NumCPU()
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	g, gctx := errgroup.WithContext(p.ctx)
	g.SetLimit(numWorkers)
	for i, f := range files {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			results[i] = parseFileJob(f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Stats{}, err
	}

	// Stage 2: sequential merge in discovery order
	data := graph.NewRepositoryData()
	stats := Stats{Discovered: len(files)}
	for _, r := range results {
		if r == nil {
			continue
		}
		if r.err != nil {
			slog.Warn("parse.file.err", "path", r.file.RelPath, "err", r.err)
			stats.Failed++
			continue
		}
		data.Files = append(data.Files, graph.File{
			Path:    r.file.Path,
			RelPath: r.file.RelPath,
			Hash:    r.hash,
		})
		data.Merge(r.data)
		stats.Parsed++
	}

	slog.Info("pipeline.done",
		"parsed", stats.Parsed, "failed", stats.Failed, "summary", data.Summary())
	return data, stats, nil
}

// parseFileJob reads, hashes, and parses a single file.
func parseFileJob(f discover.FileInfo) *parseResult {
	result := &parseResult{file: f}

	source, err := os.ReadFile(f.Path)
	if err != nil {
		result.err = err
		return result
	}

	// Hash failures only cost the File node its hash property.
	if hash, hashErr := fileHash(f.Path); hashErr == nil {
		result.hash = hash
	}

	result.data, result.err = parseFile(f.RelPath, stripBOM(source), f.Language)
	return result
}

// stripBOM removes a UTF-8 byte order mark, common in Windows-generated files.
func stripBOM(source []byte) []byte {
	if len(source) >= 3 && source[0] == 0xEF && source[1] == 0xBB && source[2] == 0xBF {
		return source[3:]
	}
	return source
}

// parseFile parses one file's text and extracts its declarations and
// relations. Fails with parser.ErrParse on syntactically invalid source.
func parseFile(relPath string, source []byte, l lang.Language) (*graph.RepositoryData, error) {
	spec := lang.ForLanguage(l)
	if spec == nil {
		return nil, fmt.Errorf("no language spec for %s", l)
	}

	tree, err := parser.Parse(l, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	data := graph.NewRepositoryData()
	root := tree.RootNode()

	extractDefinitions(root, source, relPath, spec, data)
	extractImports(root, source, relPath, spec, data)
	extractCalls(root, source, relPath, spec, data)

	return data, nil
}

func toSet(kinds []string) map[string]bool {
	set := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}
	return set
}

// safeRowToLine converts a tree-sitter 0-based row to a 1-based line number.
func safeRowToLine(row uint) int {
	const maxInt = int(^uint(0) >> 1)
	if row > uint(maxInt-1) {
		return maxInt
	}
	return int(row) + 1
}

func fileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := xxh3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
