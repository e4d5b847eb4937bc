// Package graph defines the entities extracted from a repository and the
// aggregate container handed to the ingestion stage.
package graph

import (
	"fmt"
	"log/slog"
)

// File represents a discovered source file.
type File struct {
	Path    string // absolute path
	RelPath string // relative to repo root, slash-separated; node identity key
	Hash    string // content hash, empty if hashing failed
}

// Function represents a function definition.
type Function struct {
	ID       string // "{rel_path}::{name}"
	Name     string
	FilePath string // rel path of the defining file
	Line     int    // 1-based
}

// Class represents a class definition. Same id scheme as Function,
// stored under a disjoint node label.
type Class struct {
	ID       string
	Name     string
	FilePath string
	Line     int
}

// Import represents an import relationship between two files. ToFile is a
// guess derived from the dotted module path; it is only validated at
// ingestion time, when an edge is created solely if a File node exists at
// that exact relative path.
type Import struct {
	FromFile string
	ToFile   string
	Name     string // the literal dotted module path, or "module.symbol"
}

// Call represents a function call. ToFunction is an unqualified candidate
// name (bare identifier, "receiver.attr", or bare attr); resolution to a
// Function id happens at ingestion via the name→id table.
type Call struct {
	FromFunction string // id of the enclosing function
	ToFunction   string
}

// RepositoryData is the aggregate produced by one extraction run.
// FunctionMap maps simple function names to ids, built last-write-wins in
// discovery order: a call to a name defined in several files resolves to
// whichever definition was seen last. That imprecision is deliberate.
type RepositoryData struct {
	Files       []File
	Functions   []Function
	Classes     []Class
	Imports     []Import
	Calls       []Call
	FunctionMap map[string]string
}

// NewRepositoryData creates an empty aggregate.
func NewRepositoryData() *RepositoryData {
	return &RepositoryData{FunctionMap: make(map[string]string)}
}

// Merge appends another aggregate's entities and folds its name→id
// discoveries into the shared FunctionMap. Callers must invoke Merge in
// discovery order so last-write-wins stays deterministic.
func (d *RepositoryData) Merge(other *RepositoryData) {
	d.Files = append(d.Files, other.Files...)
	d.Functions = append(d.Functions, other.Functions...)
	d.Classes = append(d.Classes, other.Classes...)
	d.Imports = append(d.Imports, other.Imports...)
	d.Calls = append(d.Calls, other.Calls...)
	for name, id := range other.FunctionMap {
		if prev, ok := d.FunctionMap[name]; ok && prev != id {
			slog.Debug("functionmap.collision", "name", name, "kept", id, "dropped", prev)
		}
		d.FunctionMap[name] = id
	}
}

// Summary returns a one-line count of every entity type.
func (d *RepositoryData) Summary() string {
	return fmt.Sprintf("%d files, %d functions, %d classes, %d imports, %d calls",
		len(d.Files), len(d.Functions), len(d.Classes), len(d.Imports), len(d.Calls))
}

// EntityID synthesizes the stable identifier for a function or class.
// Purely lexical: two definitions of the same name in one file collide.
func EntityID(relPath, name string) string {
	return relPath + "::" + name
}
