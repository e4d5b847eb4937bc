package ingest

import "github.com/DeusData/repo-graph-ingest/internal/graph"

// definition is the common shape of a Function or Class for row building.
type definition struct {
	ID   string
	Name string
	File string
	Line int
}

func functionDefs(functions []graph.Function) []definition {
	defs := make([]definition, len(functions))
	for i, fn := range functions {
		defs[i] = definition{ID: fn.ID, Name: fn.Name, File: fn.FilePath, Line: fn.Line}
	}
	return defs
}

func classDefs(classes []graph.Class) []definition {
	defs := make([]definition, len(classes))
	for i, c := range classes {
		defs[i] = definition{ID: c.ID, Name: c.Name, File: c.FilePath, Line: c.Line}
	}
	return defs
}

func fileRows(files []graph.File) []map[string]any {
	rows := make([]map[string]any, 0, len(files))
	for _, f := range files {
		rows = append(rows, map[string]any{
			"path": f.RelPath,
			"hash": f.Hash,
		})
	}
	return rows
}

func definitionRows(defs []definition) []map[string]any {
	rows := make([]map[string]any, 0, len(defs))
	for _, d := range defs {
		rows = append(rows, map[string]any{
			"id":   d.ID,
			"name": d.Name,
			"file": d.File,
			"line": d.Line,
		})
	}
	return rows
}

func importRows(imports []graph.Import) []map[string]any {
	rows := make([]map[string]any, 0, len(imports))
	for _, imp := range imports {
		rows = append(rows, map[string]any{
			"from": imp.FromFile,
			"to":   imp.ToFile,
			"name": imp.Name,
		})
	}
	return rows
}

// callRows resolves call targets through the name→id table, dropping calls
// whose name has no mapping.
func callRows(calls []graph.Call, functionMap map[string]string) []map[string]any {
	rows := make([]map[string]any, 0, len(calls))
	for _, c := range calls {
		targetID, ok := functionMap[c.ToFunction]
		if !ok {
			continue
		}
		rows = append(rows, map[string]any{
			"from": c.FromFunction,
			"to":   targetID,
		})
	}
	return rows
}
