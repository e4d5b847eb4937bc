package parser

import (
	"errors"
	"testing"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DeusData/repo-graph-ingest/internal/lang"
)

func TestParseValidPython(t *testing.T) {
	source := []byte("def greet(name):\n    return name\n")

	tree, err := Parse(lang.Python, source)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.Kind() != "module" {
		t.Errorf("expected module root, got %s", root.Kind())
	}
}

func TestParseInvalidPython(t *testing.T) {
	source := []byte("def broken(:\n")

	_, err := Parse(lang.Python, source)
	if !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestParseUnsupportedLanguage(t *testing.T) {
	_, err := Parse(lang.Language("cobol"), []byte(""))
	if err == nil {
		t.Fatal("expected error for unsupported language")
	}
}

func TestWalkVisitsAllNodes(t *testing.T) {
	source := []byte("def f():\n    g()\n")

	tree, err := Parse(lang.Python, source)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer tree.Close()

	var kinds []string
	Walk(tree.RootNode(), func(node *tree_sitter.Node) bool {
		kinds = append(kinds, node.Kind())
		return true
	})

	seen := map[string]bool{}
	for _, k := range kinds {
		seen[k] = true
	}
	for _, want := range []string{"module", "function_definition", "call"} {
		if !seen[want] {
			t.Errorf("expected to visit a %s node", want)
		}
	}
}

func TestWalkPrune(t *testing.T) {
	source := []byte("def f():\n    g()\n")

	tree, err := Parse(lang.Python, source)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer tree.Close()

	sawCall := false
	Walk(tree.RootNode(), func(node *tree_sitter.Node) bool {
		if node.Kind() == "call" {
			sawCall = true
		}
		// Prune at function definitions: nothing inside should be visited.
		return node.Kind() != "function_definition"
	})
	if sawCall {
		t.Error("expected call node to be pruned")
	}
}

func TestNodeText(t *testing.T) {
	source := []byte("def greet(name):\n    return name\n")

	tree, err := Parse(lang.Python, source)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer tree.Close()

	var name string
	Walk(tree.RootNode(), func(node *tree_sitter.Node) bool {
		if node.Kind() == "function_definition" {
			name = NodeText(node.ChildByFieldName("name"), source)
			return false
		}
		return true
	})
	if name != "greet" {
		t.Errorf("expected greet, got %q", name)
	}
}
