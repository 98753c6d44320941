package cuegraph

import (
	"sync"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"

	"github.com/robmorgan/encore/utils"
)

// Graph is the ordered forest of cues a show is built from. Every node lives
// in a flat table keyed by ID and groups reference their children by ID, so
// there are no object cycles to chase and lookups stay cheap while the
// engine reads concurrently.
type Graph struct {
	mu    sync.RWMutex
	nodes map[string]*Node
	roots []string
}

// NewGraph returns an empty cue graph.
func NewGraph() *Graph {
	return &Graph{nodes: map[string]*Node{}}
}

// Len returns the number of nodes in the graph, groups included.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// AddCue inserts an audio cue under the named group, or at the root when
// parentID is blank, and returns the stored cue. This is the editing
// boundary where windows get sanitized: a negative in point clamps to zero,
// an out point at or before the in point rejects the cue (nil return), and
// volume and fade fields clamp to their legal ranges. The graph keeps its
// own copy of the cue.
func (g *Graph) AddCue(parentID string, cue *AudioCue) *AudioCue {
	if cue == nil {
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	cp := *cue
	if cp.InPoint < 0 {
		cp.InPoint = 0
	}
	if cp.OutPoint <= cp.InPoint {
		return nil
	}
	cp.Volume = utils.Clamp(cp.Volume, 0, 1.5)
	if cp.PlayFade < 0 {
		cp.PlayFade = 0
	}
	if cp.StopFade < 0 {
		cp.StopFade = 0
	}
	if cp.FadeOutDuration < 0 {
		cp.FadeOutDuration = 0
	}
	cp.Ducking.Level = utils.ClampUnit(cp.Ducking.Level)
	if cp.ID == "" {
		cp.ID = uuid.New().String()
	}
	if _, exists := g.nodes[cp.ID]; exists {
		return nil
	}

	stored := cp
	g.nodes[stored.ID] = &Node{Audio: &stored}
	g.attachLocked(parentID, stored.ID)
	return &cp
}

// AddGroup inserts a group under the named parent group, or at the root when
// parentID is blank, and returns the stored group. Children are attached
// afterwards with AddCue/AddGroup calls naming this group as parent.
func (g *Graph) AddGroup(parentID string, grp *GroupCue) *GroupCue {
	if grp == nil {
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	cp := *grp
	cp.Children = nil
	if cp.ID == "" {
		cp.ID = uuid.New().String()
	}
	if _, exists := g.nodes[cp.ID]; exists {
		return nil
	}

	stored := cp
	g.nodes[stored.ID] = &Node{Group: &stored}
	g.attachLocked(parentID, stored.ID)
	return &cp
}

// attachLocked appends id to the parent's child list, or to the roots when
// the parent is blank or unknown.
func (g *Graph) attachLocked(parentID, id string) {
	if parentID != "" {
		if p, ok := g.nodes[parentID]; ok && p.Group != nil {
			p.Group.Children = append(p.Group.Children, id)
			return
		}
	}
	g.roots = append(g.roots, id)
}

// FlattenAudioCues returns copies of every audio cue in pre-order: a group's
// children are visited before the group's later siblings, and groups
// themselves do not appear in the output. The order is stable for a fixed
// tree and the copies are safe to read while the graph keeps changing.
func (g *Graph) FlattenAudioCues() []*AudioCue {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.flattenLocked()
}

func (g *Graph) flattenLocked() []*AudioCue {
	var out []*AudioCue
	var walk func(ids []string)
	walk = func(ids []string) {
		for _, id := range ids {
			n, ok := g.nodes[id]
			if !ok {
				continue
			}
			switch n.Kind() {
			case KindAudio:
				cp := *n.Audio
				out = append(out, &cp)
			case KindGroup:
				walk(n.Group.Children)
			}
		}
	}
	walk(g.roots)
	return out
}

// FindByID returns a copy of the audio cue with the given id, or nil when
// the id is absent or names a group. Absence is never an error.
func (g *Graph) FindByID(id string) *AudioCue {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n, ok := g.nodes[id]
	if !ok || n.Audio == nil {
		return nil
	}
	cp := *n.Audio
	return &cp
}

// FindNextAfter returns a copy of the audio cue that follows id in the
// flattened order, or nil when id is absent or already last.
func (g *Graph) FindNextAfter(id string) *AudioCue {
	g.mu.RLock()
	defer g.mu.RUnlock()

	flat := g.flattenLocked()
	for i, c := range flat {
		if c.ID == id {
			if i+1 < len(flat) {
				return flat[i+1]
			}
			return nil
		}
	}
	return nil
}

// FindGroupByID returns a copy of the group with the given id, or nil.
func (g *Graph) FindGroupByID(id string) *GroupCue {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n, ok := g.nodes[id]
	if !ok || n.Group == nil {
		return nil
	}
	cp := *n.Group
	cp.Children = slices.Clone(n.Group.Children)
	return &cp
}

// GroupPlayIDs resolves which audio cues triggering a group starts: the
// first audio cue in the group's flattened order for GroupPlayFirst, every
// descendant audio cue for GroupPlayAll. Unknown or non-group ids yield
// nothing.
func (g *Graph) GroupPlayIDs(id string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n, ok := g.nodes[id]
	if !ok || n.Group == nil {
		return nil
	}

	var ids []string
	var walk func(children []string)
	walk = func(children []string) {
		for _, childID := range children {
			cn, ok := g.nodes[childID]
			if !ok {
				continue
			}
			switch cn.Kind() {
			case KindAudio:
				ids = append(ids, cn.Audio.ID)
			case KindGroup:
				walk(cn.Group.Children)
			}
		}
	}
	walk(n.Group.Children)

	if n.Group.StartBehavior == GroupPlayFirst && len(ids) > 1 {
		ids = ids[:1]
	}
	return ids
}

// Remove deletes an audio cue, or a group together with its whole subtree.
// Untouched siblings keep their order and removing an unknown id is a no-op.
func (g *Graph) Remove(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	n, ok := g.nodes[id]
	if !ok {
		return
	}
	g.deleteSubtreeLocked(id, n)
	g.roots = cutID(g.roots, id)
	for _, other := range g.nodes {
		if other.Group != nil {
			other.Group.Children = cutID(other.Group.Children, id)
		}
	}
}

func (g *Graph) deleteSubtreeLocked(id string, n *Node) {
	if n.Group != nil {
		for _, childID := range n.Group.Children {
			if cn, ok := g.nodes[childID]; ok {
				g.deleteSubtreeLocked(childID, cn)
			}
		}
	}
	delete(g.nodes, id)
}

// Duplicate deep-copies the audio cue with the given id under a fresh id,
// suffixes the display name and inserts the copy right after the original
// under the same parent. Returns nil when id is absent or names a group.
func (g *Graph) Duplicate(id string) *AudioCue {
	g.mu.Lock()
	defer g.mu.Unlock()

	n, ok := g.nodes[id]
	if !ok || n.Audio == nil {
		return nil
	}

	cp := *n.Audio
	cp.ID = uuid.New().String()
	cp.Name += " Copy"
	stored := cp
	g.nodes[stored.ID] = &Node{Audio: &stored}
	g.insertAfterLocked(id, stored.ID)
	return &cp
}

// insertAfterLocked places id directly after afterID in whichever child list
// holds it, falling back to the end of the roots.
func (g *Graph) insertAfterLocked(afterID, id string) {
	if i := slices.Index(g.roots, afterID); i >= 0 {
		g.roots = slices.Insert(g.roots, i+1, id)
		return
	}
	for _, n := range g.nodes {
		if n.Group == nil {
			continue
		}
		if i := slices.Index(n.Group.Children, afterID); i >= 0 {
			n.Group.Children = slices.Insert(n.Group.Children, i+1, id)
			return
		}
	}
	g.roots = append(g.roots, id)
}

// cutID removes the first occurrence of id from ids.
func cutID(ids []string, id string) []string {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(ids, i, i+1)
	}
	return ids
}
