package pipeline

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DeusData/repo-graph-ingest/internal/graph"
	"github.com/DeusData/repo-graph-ingest/internal/lang"
	"github.com/DeusData/repo-graph-ingest/internal/parser"
)

// extractCalls emits one Call edge per call expression, attributed to the
// innermost enclosing function. Calls at module scope are dropped.
func extractCalls(
	root *tree_sitter.Node,
	source []byte,
	relPath string,
	spec *lang.LanguageSpec,
	data *graph.RepositoryData,
) {
	v := &callVisitor{
		source:    source,
		relPath:   relPath,
		funcTypes: toSet(spec.FunctionNodeTypes),
		callTypes: toSet(spec.CallNodeTypes),
		data:      data,
	}
	v.visit(root, "")
}

type callVisitor struct {
	source    []byte
	relPath   string
	funcTypes map[string]bool
	callTypes map[string]bool
	data      *graph.RepositoryData
}

// visit recurses depth-first, carrying the id of the current enclosing
// function as a parameter. current == "" means module scope. Passing the
// scope by value means an inner function's id applies exactly to its own
// subtree and the outer scope is restored for siblings automatically.
func (v *callVisitor) visit(node *tree_sitter.Node, current string) {
	kind := node.Kind()

	if v.funcTypes[kind] {
		if name := definitionName(node, v.source); name != "" {
			current = graph.EntityID(v.relPath, name)
		}
	}

	if v.callTypes[kind] && current != "" {
		if callee := calleeName(node, v.source); callee != "" {
			v.data.Calls = append(v.data.Calls, graph.Call{
				FromFunction: current,
				ToFunction:   callee,
			})
		}
	}

	// Descend regardless: a call's arguments can contain nested calls.
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child != nil {
			v.visit(child, current)
		}
	}
}

// calleeName produces the candidate name for a call expression:
//   - bare identifier target: the identifier itself
//   - attribute on an identifier receiver: "receiver.attr"
//   - attribute on any other expression: just the attr, receiver discarded
//   - anything else: no candidate
func calleeName(node *tree_sitter.Node, source []byte) string {
	fn := node.ChildByFieldName("function")
	if fn == nil {
		return ""
	}

	switch fn.Kind() {
	case "identifier":
		return parser.NodeText(fn, source)
	case "attribute":
		attr := fn.ChildByFieldName("attribute")
		if attr == nil {
			return ""
		}
		obj := fn.ChildByFieldName("object")
		if obj != nil && obj.Kind() == "identifier" {
			return parser.NodeText(obj, source) + "." + parser.NodeText(attr, source)
		}
		return parser.NodeText(attr, source)
	}
	return ""
}
