package pipeline

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DeusData/repo-graph-ingest/internal/graph"
	"github.com/DeusData/repo-graph-ingest/internal/lang"
	"github.com/DeusData/repo-graph-ingest/internal/parser"
)

// extractImports collects import statements and converts each imported
// module path into a candidate target file path. The path is a guess; it is
// checked against discovered File nodes only at ingestion.
//
// Python import AST structures:
//
//	import_statement:
//	  dotted_name children (e.g., "import foo.bar")
//	  aliased_import with alias (e.g., "import foo as f")
//
//	import_from_statement:
//	  module_name: dotted_name or relative_import
//	  name: dotted_name or aliased_import, one per imported symbol
//	  wildcard_import for "from foo import *"
func extractImports(
	root *tree_sitter.Node,
	source []byte,
	relPath string,
	spec *lang.LanguageSpec,
	data *graph.RepositoryData,
) {
	importTypes := toSet(spec.ImportNodeTypes)
	fromTypes := toSet(spec.ImportFromTypes)
	ext := spec.FileExtensions[0]

	parser.Walk(root, func(node *tree_sitter.Node) bool {
		switch {
		case importTypes[node.Kind()]:
			extractPlainImport(node, source, relPath, ext, data)
			return false
		case fromTypes[node.Kind()]:
			extractFromImport(node, source, relPath, ext, data)
			return false
		}
		return true
	})
}

// extractPlainImport handles "import X" and "import X as Y": one edge per
// imported module, named by the literal dotted path (the alias never
// changes the target).
func extractPlainImport(node *tree_sitter.Node, source []byte, relPath, ext string, data *graph.RepositoryData) {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}

		var module string
		switch child.Kind() {
		case "dotted_name":
			module = parser.NodeText(child, source)
		case "aliased_import":
			if nameNode := child.ChildByFieldName("name"); nameNode != nil {
				module = parser.NodeText(nameNode, source)
			}
		}
		if module == "" {
			continue
		}

		data.Imports = append(data.Imports, graph.Import{
			FromFile: relPath,
			ToFile:   moduleToFile(module, ext),
			Name:     module,
		})
	}
}

// extractFromImport handles "from X import a, b as c". Statements without a
// named module ("from . import x", bare relative imports) emit nothing.
func extractFromImport(node *tree_sitter.Node, source []byte, relPath, ext string, data *graph.RepositoryData) {
	moduleNode := node.ChildByFieldName("module_name")
	if moduleNode == nil {
		return
	}

	module := fromModuleName(moduleNode, source)
	if module == "" {
		return
	}
	toFile := moduleToFile(module, ext)

	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil || child.StartByte() == moduleNode.StartByte() {
			continue
		}

		var symbol string
		switch child.Kind() {
		case "dotted_name":
			symbol = parser.NodeText(child, source)
		case "aliased_import":
			if nameNode := child.ChildByFieldName("name"); nameNode != nil {
				symbol = parser.NodeText(nameNode, source)
			}
		case "wildcard_import":
			symbol = "*"
		}
		if symbol == "" {
			continue
		}

		data.Imports = append(data.Imports, graph.Import{
			FromFile: relPath,
			ToFile:   toFile,
			Name:     module + "." + symbol,
		})
	}
}

// fromModuleName extracts the dotted module path from a module_name node.
// Relative imports keep only their dotted suffix ("from .foo import x" →
// "foo"); a lone "." has no module path and yields "".
func fromModuleName(moduleNode *tree_sitter.Node, source []byte) string {
	switch moduleNode.Kind() {
	case "dotted_name":
		return parser.NodeText(moduleNode, source)
	case "relative_import":
		for i := uint(0); i < moduleNode.NamedChildCount(); i++ {
			child := moduleNode.NamedChild(i)
			if child != nil && child.Kind() == "dotted_name" {
				return parser.NodeText(child, source)
			}
		}
	}
	return ""
}

// moduleToFile converts a dotted module path into a candidate relative file
// path: "pkg.mod" → "pkg/mod.py". Never validated against the filesystem.
func moduleToFile(module, ext string) string {
	return strings.ReplaceAll(module, ".", "/") + ext
}
