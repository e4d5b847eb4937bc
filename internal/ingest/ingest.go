// Package ingest writes one RepositoryData aggregate into Neo4j as a batch
// of upserts.
package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/DeusData/repo-graph-ingest/internal/graph"
)

// Ingester loads extracted repository data into a Neo4j database using
// batch UNWIND queries.
type Ingester struct {
	driver neo4j.DriverWithContext
}

// New connects to Neo4j and returns a ready-to-use ingester.
func New(uri, username, password string) (*Ingester, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	return &Ingester{driver: driver}, nil
}

// Close releases the underlying driver resources.
func (in *Ingester) Close(ctx context.Context) {
	_ = in.driver.Close(ctx)
}

// VerifyConnectivity checks the connection before any writes. A failure
// here aborts the whole run.
func (in *Ingester) VerifyConnectivity(ctx context.Context) error {
	if err := in.driver.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("neo4j connectivity: %w", err)
	}
	return nil
}

// runCypher runs a single Cypher statement with optional parameters.
func (in *Ingester) runCypher(ctx context.Context, cypher string, params map[string]any) error {
	_, err := neo4j.ExecuteQuery(ctx, in.driver, cypher, params, neo4j.EagerResultTransformer)
	return err
}

// CreateConstraints ensures uniqueness constraints on the node keys.
func (in *Ingester) CreateConstraints(ctx context.Context) error {
	constraints := []string{
		"CREATE CONSTRAINT file_path IF NOT EXISTS FOR (f:File) REQUIRE f.path IS UNIQUE",
		"CREATE CONSTRAINT function_id IF NOT EXISTS FOR (fn:Function) REQUIRE fn.id IS UNIQUE",
		"CREATE CONSTRAINT class_id IF NOT EXISTS FOR (c:Class) REQUIRE c.id IS UNIQUE",
	}
	for _, q := range constraints {
		if err := in.runCypher(ctx, q, nil); err != nil {
			return err
		}
	}
	return nil
}

// ClearDatabase removes all nodes and relationships.
func (in *Ingester) ClearDatabase(ctx context.Context) error {
	slog.Info("ingest.clear")
	return in.runCypher(ctx, "MATCH (n) DETACH DELETE n", nil)
}

// IngestFiles upserts one File node per file, keyed by relative path.
func (in *Ingester) IngestFiles(ctx context.Context, files []graph.File) error {
	slog.Info("ingest.files", "count", len(files))
	if len(files) == 0 {
		return nil
	}
	return in.runCypher(ctx,
		`UNWIND $batch AS row
		 MERGE (f:File {path: row.path})
		 SET f.relative_path = row.path, f.hash = row.hash`,
		map[string]any{"batch": fileRows(files)},
	)
}

// IngestFunctions upserts Function nodes and links each to its owning File.
func (in *Ingester) IngestFunctions(ctx context.Context, functions []graph.Function) error {
	slog.Info("ingest.functions", "count", len(functions))
	if len(functions) == 0 {
		return nil
	}
	return in.runCypher(ctx,
		`UNWIND $batch AS row
		 MERGE (fn:Function {id: row.id})
		 SET fn.name = row.name, fn.line_number = row.line
		 WITH fn, row
		 MATCH (f:File {path: row.file})
		 MERGE (f)-[:DEFINES]->(fn)`,
		map[string]any{"batch": definitionRows(functionDefs(functions))},
	)
}

// IngestClasses upserts Class nodes with the same scheme as functions.
func (in *Ingester) IngestClasses(ctx context.Context, classes []graph.Class) error {
	slog.Info("ingest.classes", "count", len(classes))
	if len(classes) == 0 {
		return nil
	}
	return in.runCypher(ctx,
		`UNWIND $batch AS row
		 MERGE (c:Class {id: row.id})
		 SET c.name = row.name, c.line_number = row.line
		 WITH c, row
		 MATCH (f:File {path: row.file})
		 MERGE (f)-[:DEFINES]->(c)`,
		map[string]any{"batch": definitionRows(classDefs(classes))},
	)
}

// IngestImports creates IMPORTS edges between File nodes. Rows whose target
// path has no File node fall out of the MATCH and are skipped.
func (in *Ingester) IngestImports(ctx context.Context, imports []graph.Import) error {
	slog.Info("ingest.imports", "count", len(imports))
	if len(imports) == 0 {
		return nil
	}
	return in.runCypher(ctx,
		`UNWIND $batch AS row
		 MATCH (from:File {path: row.from})
		 MATCH (to:File {path: row.to})
		 MERGE (from)-[r:IMPORTS]->(to)
		 SET r.name = row.name`,
		map[string]any{"batch": importRows(imports)},
	)
}

// IngestCalls resolves each call's target name through the name→id table
// and creates CALLS edges. Unresolved calls are dropped silently.
func (in *Ingester) IngestCalls(ctx context.Context, calls []graph.Call, functionMap map[string]string) error {
	rows := callRows(calls, functionMap)
	slog.Info("ingest.calls", "count", len(calls), "resolved", len(rows))
	if len(rows) == 0 {
		return nil
	}
	return in.runCypher(ctx,
		`UNWIND $batch AS row
		 MATCH (from:Function {id: row.from})
		 MATCH (to:Function {id: row.to})
		 MERGE (from)-[:CALLS]->(to)`,
		map[string]any{"batch": rows},
	)
}

// IngestRepository writes the whole aggregate in dependency order: files
// first, then the definitions that link to them, then the edges between
// them. Every step uses MERGE, so a rerun after a partial failure is safe.
func (in *Ingester) IngestRepository(ctx context.Context, data *graph.RepositoryData, clearExisting bool) error {
	if err := in.VerifyConnectivity(ctx); err != nil {
		return err
	}

	if clearExisting {
		if err := in.ClearDatabase(ctx); err != nil {
			return fmt.Errorf("clear database: %w", err)
		}
	}

	if err := in.CreateConstraints(ctx); err != nil {
		return fmt.Errorf("create constraints: %w", err)
	}
	if err := in.IngestFiles(ctx, data.Files); err != nil {
		return fmt.Errorf("ingest files: %w", err)
	}
	if err := in.IngestFunctions(ctx, data.Functions); err != nil {
		return fmt.Errorf("ingest functions: %w", err)
	}
	if err := in.IngestClasses(ctx, data.Classes); err != nil {
		return fmt.Errorf("ingest classes: %w", err)
	}
	if err := in.IngestImports(ctx, data.Imports); err != nil {
		return fmt.Errorf("ingest imports: %w", err)
	}
	if err := in.IngestCalls(ctx, data.Calls, data.FunctionMap); err != nil {
		return fmt.Errorf("ingest calls: %w", err)
	}

	slog.Info("ingest.done")
	return nil
}
