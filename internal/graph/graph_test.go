package graph

import "testing"

func TestEntityID(t *testing.T) {
	id := EntityID("pkg/mod.py", "handler")
	if id != "pkg/mod.py::handler" {
		t.Errorf("expected pkg/mod.py::handler, got %s", id)
	}
}

func TestMergeAppendsEntities(t *testing.T) {
	agg := NewRepositoryData()

	fileA := NewRepositoryData()
	fileA.Functions = append(fileA.Functions, Function{ID: "a.py::foo", Name: "foo", FilePath: "a.py", Line: 1})
	fileA.FunctionMap["foo"] = "a.py::foo"

	fileB := NewRepositoryData()
	fileB.Classes = append(fileB.Classes, Class{ID: "b.py::Thing", Name: "Thing", FilePath: "b.py", Line: 3})
	fileB.Calls = append(fileB.Calls, Call{FromFunction: "b.py::bar", ToFunction: "foo"})

	agg.Merge(fileA)
	agg.Merge(fileB)

	if len(agg.Functions) != 1 || len(agg.Classes) != 1 || len(agg.Calls) != 1 {
		t.Fatalf("unexpected entity counts: %s", agg.Summary())
	}
	if agg.FunctionMap["foo"] != "a.py::foo" {
		t.Errorf("expected foo mapped to a.py::foo, got %s", agg.FunctionMap["foo"])
	}
}

func TestMergeLastWriteWins(t *testing.T) {
	agg := NewRepositoryData()

	first := NewRepositoryData()
	first.FunctionMap["dup"] = "a.py::dup"
	second := NewRepositoryData()
	second.FunctionMap["dup"] = "c.py::dup"

	agg.Merge(first)
	agg.Merge(second)

	if got := agg.FunctionMap["dup"]; got != "c.py::dup" {
		t.Errorf("expected last discovery to win, got %s", got)
	}
	if len(agg.FunctionMap) != 1 {
		t.Errorf("expected exactly one mapping for dup, got %d entries", len(agg.FunctionMap))
	}
}

func TestSummary(t *testing.T) {
	agg := NewRepositoryData()
	agg.Files = append(agg.Files, File{RelPath: "a.py"})
	agg.Functions = append(agg.Functions, Function{ID: "a.py::foo"})

	got := agg.Summary()
	want := "1 files, 1 functions, 0 classes, 0 imports, 0 calls"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
