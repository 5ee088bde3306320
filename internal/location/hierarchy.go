package location

import "github.com/fekuna/omnipos-inventory-service/internal/model"

// Tree indexes a flat location list by id and by parent. Traversals keep a
// visited set, so a corrupted parent chain ends instead of looping.
type Tree struct {
	byID     map[string]model.Location
	children map[string][]string
}

func NewTree(locations []model.Location) *Tree {
	t := &Tree{
		byID:     make(map[string]model.Location, len(locations)),
		children: make(map[string][]string),
	}
	for _, loc := range locations {
		t.byID[loc.ID] = loc
		if loc.ParentID != nil && *loc.ParentID != "" {
			t.children[*loc.ParentID] = append(t.children[*loc.ParentID], loc.ID)
		}
	}
	return t
}

// Ancestors returns the parent chain of id, nearest first.
func (t *Tree) Ancestors(id string) []model.Location {
	out := []model.Location{}
	visited := map[string]bool{id: true}

	cur, ok := t.byID[id]
	for ok && cur.ParentID != nil && *cur.ParentID != "" {
		parentID := *cur.ParentID
		if visited[parentID] {
			break
		}
		visited[parentID] = true
		cur, ok = t.byID[parentID]
		if ok {
			out = append(out, cur)
		}
	}
	return out
}

// Descendants returns every location below id in breadth-first order.
func (t *Tree) Descendants(id string) []model.Location {
	out := []model.Location{}
	visited := map[string]bool{id: true}
	queue := append([]string(nil), t.children[id]...)

	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if visited[next] {
			continue
		}
		visited[next] = true
		out = append(out, t.byID[next])
		queue = append(queue, t.children[next]...)
	}
	return out
}

// Rank orders location types from the top of the hierarchy down. A child
// must rank strictly below its parent.
func Rank(t model.LocationType) int {
	switch t {
	case model.LocationHeadOffice:
		return 0
	case model.LocationRegion:
		return 1
	case model.LocationDistrict:
		return 2
	default:
		return 3
	}
}
