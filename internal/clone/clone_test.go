package clone

import (
	"reflect"
	"testing"
)

type item struct {
	Name  string
	Tags  []string
	Attrs map[string]any
	Next  *item
	note  string
}

func TestValueDeepCopiesContainers(t *testing.T) {
	src := map[string]any{
		"list":   []any{"a", map[string]any{"k": "v"}, nil},
		"nested": map[string]any{"inner": []int{1, 2}},
		"array":  [2]string{"x", "y"},
		"nil":    nil,
	}

	out := Value(src)
	if !reflect.DeepEqual(out, src) {
		t.Fatalf("expected equal copy, got %#v", out)
	}

	out["list"].([]any)[1].(map[string]any)["k"] = "changed"
	out["nested"].(map[string]any)["inner"].([]int)[0] = 9
	if src["list"].([]any)[1].(map[string]any)["k"] != "v" {
		t.Fatalf("expected nested map detached")
	}
	if src["nested"].(map[string]any)["inner"].([]int)[0] != 1 {
		t.Fatalf("expected nested slice detached")
	}
}

func TestValueCopiesStructsAndPointers(t *testing.T) {
	src := &item{
		Name:  "root",
		Tags:  []string{"a"},
		Attrs: map[string]any{"n": 1},
		Next:  &item{Name: "child"},
		note:  "kept",
	}

	out := Value(src)
	if out == src || out.Next == src.Next {
		t.Fatalf("expected new pointers")
	}
	if out.note != "kept" {
		t.Fatalf("expected unexported fields copied by value, got %q", out.note)
	}
	out.Tags[0] = "b"
	out.Attrs["n"] = 2
	out.Next.Name = "other"
	if src.Tags[0] != "a" || src.Attrs["n"] != 1 || src.Next.Name != "child" {
		t.Fatalf("expected source untouched, got %+v", src)
	}
}

func TestValueNilInputs(t *testing.T) {
	if got := Value[any](nil); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
	var nilMap map[string]any
	if got := Value(nilMap); got != nil {
		t.Fatalf("expected nil map, got %v", got)
	}
	if Map(nil) != nil {
		t.Fatalf("expected nil from Map(nil)")
	}
}

func TestMap(t *testing.T) {
	src := map[string]any{"tags": []string{"a"}}
	out := Map(src)
	out["tags"].([]string)[0] = "b"
	if src["tags"].([]string)[0] != "a" {
		t.Fatalf("expected Map to deep copy values")
	}
}

type ring struct {
	Name string
	Next *ring
}

func TestValuePreservesCycles(t *testing.T) {
	node := &ring{Name: "self"}
	node.Next = node

	out := Value(node)
	if out == node {
		t.Fatalf("expected a new pointer")
	}
	if out.Next != out {
		t.Fatalf("expected the copy to link to itself")
	}

	self := map[string]any{"name": "loop"}
	self["self"] = self
	copied := Value(self)
	inner, ok := copied["self"].(map[string]any)
	if !ok || inner["name"] != "loop" {
		t.Fatalf("unexpected cyclic map copy %v", copied["name"])
	}
	inner["name"] = "changed"
	if copied["name"] != "changed" || self["name"] != "loop" {
		t.Fatalf("expected the cyclic copy to reference itself and not the source")
	}

	list := []any{nil}
	list[0] = list
	if got := Value(list); len(got) != 1 {
		t.Fatalf("expected cyclic slice copied, got %d elements", len(got))
	}
}

func TestValueKeepsSharedReferencesShared(t *testing.T) {
	shared := &ring{Name: "shared"}
	pair := []*ring{shared, shared}

	out := Value(pair)
	if out[0] != out[1] || out[0] == shared {
		t.Fatalf("expected one detached copy shared by both entries")
	}
}
