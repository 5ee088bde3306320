package location

import (
	"testing"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

func loc(id, parent string) model.Location {
	l := model.Location{BaseModel: model.BaseModel{ID: id}}
	if parent != "" {
		l.ParentID = &parent
	}
	return l
}

func ids(locs []model.Location) []string {
	out := make([]string, len(locs))
	for i, l := range locs {
		out[i] = l.ID
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestTreeTraversal(t *testing.T) {
	tree := NewTree([]model.Location{
		loc("hq", ""),
		loc("north", "hq"),
		loc("south", "hq"),
		loc("d1", "north"),
		loc("store-1", "d1"),
		loc("store-2", "d1"),
	})

	if got := ids(tree.Ancestors("store-1")); !equal(got, []string{"d1", "north", "hq"}) {
		t.Fatalf("ancestors = %v", got)
	}
	if got := ids(tree.Descendants("hq")); !equal(got, []string{"north", "south", "d1", "store-1", "store-2"}) {
		t.Fatalf("descendants = %v", got)
	}
	if got := tree.Ancestors("hq"); len(got) != 0 {
		t.Fatalf("root has ancestors %v", ids(got))
	}
}

func TestTreeStopsOnCycle(t *testing.T) {
	tree := NewTree([]model.Location{
		loc("a", "c"),
		loc("b", "a"),
		loc("c", "b"),
	})

	if got := ids(tree.Ancestors("a")); !equal(got, []string{"c", "b"}) {
		t.Fatalf("ancestors = %v", got)
	}
	if got := ids(tree.Descendants("a")); !equal(got, []string{"b", "c"}) {
		t.Fatalf("descendants = %v", got)
	}
}
