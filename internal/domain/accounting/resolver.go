package accounting

import (
	"github.com/google/uuid"
)

// GroupPath names a detailed group by the chain of names above it, the way
// an import file refers to it.
type GroupPath struct {
	ElementGroup    string
	SubElementGroup string
	DetailedGroup   string
}

// GroupIndex resolves group names to groups of a single tenant. Matching is
// exact and case-sensitive.
type GroupIndex struct {
	tenantID uuid.UUID
	byName   map[Level]map[string][]*Group
}

// NewGroupIndex indexes the given groups. Groups owned by another tenant
// are ignored.
func NewGroupIndex(tenantID uuid.UUID, groups []Group) *GroupIndex {
	idx := &GroupIndex{
		tenantID: tenantID,
		byName:   make(map[Level]map[string][]*Group, 4),
	}
	for i := range groups {
		g := &groups[i]
		if !g.BelongsTo(tenantID) {
			continue
		}
		if idx.byName[g.Level] == nil {
			idx.byName[g.Level] = make(map[string][]*Group)
		}
		idx.byName[g.Level][g.Name] = append(idx.byName[g.Level][g.Name], g)
	}
	return idx
}

// Resolve walks element → sub element → detailed group, each step limited
// to the children of the previous step's matches. The first level without
// a match yields UNRESOLVED_GROUP; a path ending in more than one detailed
// group yields AMBIGUOUS_GROUP.
func (idx *GroupIndex) Resolve(path GroupPath) (*Group, error) {
	elements := idx.byName[LevelElement][path.ElementGroup]
	if len(elements) == 0 {
		return nil, NewUnresolvedGroupError(LevelElement, path.ElementGroup)
	}

	subs := childrenNamed(idx.byName[LevelSubElement][path.SubElementGroup], elements)
	if len(subs) == 0 {
		return nil, NewUnresolvedGroupError(LevelSubElement, path.SubElementGroup)
	}

	detailed := childrenNamed(idx.byName[LevelDetailed][path.DetailedGroup], subs)
	switch len(detailed) {
	case 0:
		return nil, NewUnresolvedGroupError(LevelDetailed, path.DetailedGroup)
	case 1:
		return detailed[0], nil
	default:
		return nil, NewAmbiguousGroupError(LevelDetailed, path.DetailedGroup, len(detailed))
	}
}

func childrenNamed(candidates, parents []*Group) []*Group {
	if len(candidates) == 0 {
		return nil
	}
	parentIDs := make(map[uuid.UUID]struct{}, len(parents))
	for _, p := range parents {
		parentIDs[p.ID] = struct{}{}
	}
	out := make([]*Group, 0, len(candidates))
	for _, c := range candidates {
		if c.ParentID == nil {
			continue
		}
		if _, ok := parentIDs[*c.ParentID]; ok {
			out = append(out, c)
		}
	}
	return out
}
