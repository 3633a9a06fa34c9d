package quadtree

import "github.com/go-gl/mathgl/mgl64"

var edgeDirs = [4]mgl64.Vec2{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// Balance splits leaves until no two edge-adjacent leaves differ by more than
// one level, which removes T-junctions wider than a single LOD step.
// It returns the number of splits performed.
func (t *Tree) Balance() int {
	splits := 0
	var leaves []int
	for {
		changed := false
		leaves = t.leafIndices(leaves[:0], 0)
		for _, li := range leaves {
			n := t.nodes[li]
			if !n.IsLeaf() || n.Depth < 2 {
				continue
			}
			for _, d := range edgeDirs {
				// A coarser neighbour covers the whole edge, so probing the
				// middle of the adjacent square finds it.
				p := n.Center.Add(d.Mul(0.75 * n.Size))
				j := t.Locate(p)
				if j < 0 {
					continue
				}
				if t.nodes[j].Depth < n.Depth-1 {
					t.split(j)
					splits++
					changed = true
				}
			}
		}
		if !changed {
			return splits
		}
	}
}

func (t *Tree) leafIndices(dst []int, i int) []int {
	if len(t.nodes) == 0 {
		return dst
	}
	n := t.nodes[i]
	if n.IsLeaf() {
		return append(dst, i)
	}
	for c := range 4 {
		dst = t.leafIndices(dst, int(n.FirstChild)+c)
	}
	return dst
}

// MaxNeighbourDelta returns the largest depth difference between any two
// edge-adjacent leaves.
func (t *Tree) MaxNeighbourDelta() int {
	worst := 0
	for _, li := range t.leafIndices(nil, 0) {
		n := t.nodes[li]
		for _, d := range edgeDirs {
			j := t.Locate(n.Center.Add(d.Mul(0.75 * n.Size)))
			if j < 0 {
				continue
			}
			if delta := n.Depth - t.nodes[j].Depth; delta > worst {
				worst = delta
			}
		}
	}
	return worst
}
