package pipeline

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DeusData/repo-graph-ingest/internal/graph"
	"github.com/DeusData/repo-graph-ingest/internal/lang"
	"github.com/DeusData/repo-graph-ingest/internal/parser"
)

// extractDefinitions walks the whole tree and collects every function and
// class definition at any nesting depth, tagged with its 1-based line.
// Function discoveries also feed the per-file name→id table; two functions
// sharing a name keep only the later id there, though both Function entities
// are retained.
func extractDefinitions(
	root *tree_sitter.Node,
	source []byte,
	relPath string,
	spec *lang.LanguageSpec,
	data *graph.RepositoryData,
) {
	funcTypes := toSet(spec.FunctionNodeTypes)
	classTypes := toSet(spec.ClassNodeTypes)

	parser.Walk(root, func(node *tree_sitter.Node) bool {
		kind := node.Kind()

		if funcTypes[kind] {
			name := definitionName(node, source)
			if name != "" {
				id := graph.EntityID(relPath, name)
				data.Functions = append(data.Functions, graph.Function{
					ID:       id,
					Name:     name,
					FilePath: relPath,
					Line:     safeRowToLine(node.StartPosition().Row),
				})
				data.FunctionMap[name] = id
			}
		} else if classTypes[kind] {
			name := definitionName(node, source)
			if name != "" {
				data.Classes = append(data.Classes, graph.Class{
					ID:       graph.EntityID(relPath, name),
					Name:     name,
					FilePath: relPath,
					Line:     safeRowToLine(node.StartPosition().Row),
				})
			}
		}

		// Keep descending: nested definitions are collected too.
		return true
	})
}

// definitionName returns the declared name of a function or class node.
func definitionName(node *tree_sitter.Node, source []byte) string {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return ""
	}
	return parser.NodeText(nameNode, source)
}
