package quadtree

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Quadrant order of the four children of a split node.
const (
	SW = iota
	SE
	NW
	NE
)

const none = -1

// Node is one square of the subdivision. Children are stored contiguously in
// the arena starting at FirstChild, in SW, SE, NW, NE order.
type Node struct {
	Center     mgl64.Vec2 // (x, z)
	Size       float64
	Depth      int
	Parent     int32
	FirstChild int32
}

// IsLeaf reports whether the node has no children.
func (n Node) IsLeaf() bool { return n.FirstChild == none }

// Min returns the lower (x, z) corner of the node's square.
func (n Node) Min() mgl64.Vec2 {
	h := n.Size / 2
	return mgl64.Vec2{n.Center.X() - h, n.Center.Y() - h}
}

// Contains reports whether p lies in the half-open square [min, min+size).
func (n Node) Contains(p mgl64.Vec2) bool {
	m := n.Min()
	return p.X() >= m.X() && p.X() < m.X()+n.Size && p.Y() >= m.Y() && p.Y() < m.Y()+n.Size
}

// Tree is an arena-backed quadtree rebuilt around the viewer. It is a
// scratch structure: Build discards the previous tree but keeps the arena.
type Tree struct {
	nodes     []Node
	maxDepth  int
	threshold float64
	viewer    mgl64.Vec2
}

// New returns an empty tree. capacity pre-sizes the node arena.
func New(capacity int) *Tree {
	return &Tree{nodes: make([]Node, 0, capacity)}
}

// Reset drops all nodes, keeping the arena's capacity.
func (t *Tree) Reset() {
	t.nodes = t.nodes[:0]
}

// Len returns the number of nodes (internal and leaves).
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns the node at index i. Index 0 is the root.
func (t *Tree) Node(i int) Node { return t.nodes[i] }

// Root returns the root node; the tree must have been built.
func (t *Tree) Root() Node { return t.nodes[0] }

// Build subdivides a root square of rootSize centred at rootCenter. A node is
// split iff the viewer is closer to its centre than size*splitThreshold and
// its depth is below maxDepth.
func (t *Tree) Build(viewer, rootCenter mgl64.Vec2, rootSize float64, maxDepth int, splitThreshold float64) {
	t.Reset()
	t.maxDepth = maxDepth
	t.threshold = splitThreshold
	t.viewer = viewer
	t.nodes = append(t.nodes, Node{
		Center:     rootCenter,
		Size:       rootSize,
		Depth:      0,
		Parent:     none,
		FirstChild: none,
	})
	t.subdivide(0)
}

func (t *Tree) shouldSplit(i int) bool {
	n := t.nodes[i]
	if n.Depth >= t.maxDepth {
		return false
	}
	return t.viewer.Sub(n.Center).Len() < n.Size*t.threshold
}

func (t *Tree) subdivide(i int) {
	if !t.shouldSplit(i) {
		return
	}
	first := t.split(i)
	for c := range 4 {
		t.subdivide(first + c)
	}
}

// split appends the four children of node i and returns the first child's index.
func (t *Tree) split(i int) int {
	n := t.nodes[i]
	childSize := n.Size / 2
	q := n.Size / 4
	cx, cz := n.Center.X(), n.Center.Y()
	first := len(t.nodes)
	offsets := [4][2]float64{
		SW: {-q, -q},
		SE: {+q, -q},
		NW: {-q, +q},
		NE: {+q, +q},
	}
	for _, o := range offsets {
		t.nodes = append(t.nodes, Node{
			Center:     mgl64.Vec2{cx + o[0], cz + o[1]},
			Size:       childSize,
			Depth:      n.Depth + 1,
			Parent:     int32(i),
			FirstChild: none,
		})
	}
	t.nodes[i].FirstChild = int32(first)
	return first
}

// Leaves appends the leaf nodes in depth-first order to dst.
func (t *Tree) Leaves(dst []Node) []Node {
	if len(t.nodes) == 0 {
		return dst
	}
	return t.appendLeaves(dst, 0)
}

func (t *Tree) appendLeaves(dst []Node, i int) []Node {
	n := t.nodes[i]
	if n.IsLeaf() {
		return append(dst, n)
	}
	for c := range 4 {
		dst = t.appendLeaves(dst, int(n.FirstChild)+c)
	}
	return dst
}

// Locate returns the index of the leaf containing p, or -1 when p is outside the root.
func (t *Tree) Locate(p mgl64.Vec2) int {
	if len(t.nodes) == 0 || !t.nodes[0].Contains(p) {
		return none
	}
	i := 0
	for !t.nodes[i].IsLeaf() {
		n := t.nodes[i]
		q := 0
		if p.X() >= n.Center.X() {
			q |= 1
		}
		if p.Y() >= n.Center.Y() {
			q |= 2
		}
		i = int(n.FirstChild) + q
	}
	return i
}

// BuildLeaves builds a throwaway tree and returns its leaves.
func BuildLeaves(viewer, rootCenter mgl64.Vec2, rootSize float64, maxDepth int, splitThreshold float64) []Node {
	t := New(64)
	t.Build(viewer, rootCenter, rootSize, maxDepth, splitThreshold)
	return t.Leaves(nil)
}
