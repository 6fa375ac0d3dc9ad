package physics

import (
	"math"
	"sort"
)

const (
	// DefaultLeafThreshold is the largest object count stored in a single leaf.
	DefaultLeafThreshold = 2
	// DefaultMaxDepth caps recursion; deeper nodes become leaves.
	DefaultMaxDepth = 32

	// boxSlack pads object boxes so rounding in the exact shape tests never
	// lands a hit outside the box used for pruning.
	boxSlack = 1e-9
)

// BVHNode bounds its subtree. A leaf holds indices into the BVH's object list
// and has no children; an internal node has both children and no objects.
type BVHNode struct {
	Box     BoundingBox
	Left    *BVHNode
	Right   *BVHNode
	Objects []int
}

func (n *BVHNode) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

// BVH is built once over a snapshot of object boxes. Moving or replacing the
// objects requires a rebuild.
type BVH struct {
	root    *BVHNode
	objects []Object
	boxes   []BoundingBox

	leafThreshold int
	maxDepth      int
}

type BVHOption func(*BVH)

func WithLeafThreshold(n int) BVHOption {
	return func(b *BVH) {
		if n > 0 {
			b.leafThreshold = n
		}
	}
}

func WithMaxDepth(d int) BVHOption {
	return func(b *BVH) {
		if d >= 0 {
			b.maxDepth = d
		}
	}
}

// BuildBVH partitions objects by the median box center along the longest axis
// of each node. Construction is deterministic: equal centers keep their input
// order.
func BuildBVH(objects []Object, opts ...BVHOption) (*BVH, error) {
	if len(objects) == 0 {
		return nil, ErrEmptyScene
	}

	b := &BVH{
		objects:       append([]Object(nil), objects...),
		boxes:         make([]BoundingBox, len(objects)),
		leafThreshold: DefaultLeafThreshold,
		maxDepth:      DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(b)
	}

	for i, obj := range b.objects {
		if obj == nil {
			return nil, invalidf("nil object at index %d", i)
		}
		b.boxes[i] = obj.BoundingBox().Expand(boxSlack)
	}

	indices := make([]int, len(objects))
	for i := range indices {
		indices[i] = i
	}
	b.root = b.buildNode(indices, 0)
	return b, nil
}

func (b *BVH) buildNode(indices []int, depth int) *BVHNode {
	node := &BVHNode{Box: b.computeBounds(indices)}

	if len(indices) <= b.leafThreshold || depth >= b.maxDepth {
		node.Objects = indices
		return node
	}

	axis := node.Box.LongestAxis()
	b.sortByCenter(indices, axis)

	// len >= 2 here, so both halves are non-empty even when every center
	// coincides and the sort falls back to input order.
	mid := len(indices) / 2
	left := append([]int(nil), indices[:mid]...)
	right := append([]int(nil), indices[mid:]...)

	node.Left = b.buildNode(left, depth+1)
	node.Right = b.buildNode(right, depth+1)
	return node
}

func (b *BVH) computeBounds(indices []int) BoundingBox {
	bounds := b.boxes[indices[0]]
	for _, idx := range indices[1:] {
		bounds = Union(bounds, b.boxes[idx])
	}
	return bounds
}

func (b *BVH) sortByCenter(indices []int, axis int) {
	sort.SliceStable(indices, func(i, j int) bool {
		ci := b.boxes[indices[i]].Center()[axis]
		cj := b.boxes[indices[j]].Center()[axis]
		if ci != cj {
			return ci < cj
		}
		return indices[i] < indices[j]
	})
}

func (b *BVH) Root() *BVHNode {
	return b.root
}

// Len is the number of objects the tree was built over.
func (b *BVH) Len() int {
	return len(b.objects)
}

// Object returns the object at a build index.
func (b *BVH) Object(index int) Object {
	return b.objects[index]
}

// Bounds is the box of the whole tree.
func (b *BVH) Bounds() BoundingBox {
	return b.root.Box
}

// Boxes collects every node box, parents before children.
func (b *BVH) Boxes() []BoundingBox {
	var out []BoundingBox
	var walk func(n *BVHNode)
	walk = func(n *BVHNode) {
		if n == nil {
			return
		}
		out = append(out, n.Box)
		walk(n.Left)
		walk(n.Right)
	}
	walk(b.root)
	return out
}

// Depth is the number of levels; a single leaf has depth 1.
func (b *BVH) Depth() int {
	var depth func(n *BVHNode) int
	depth = func(n *BVHNode) int {
		if n == nil {
			return 0
		}
		return 1 + max(depth(n.Left), depth(n.Right))
	}
	return depth(b.root)
}

func (b *BVH) LeafCount() int {
	var count func(n *BVHNode) int
	count = func(n *BVHNode) int {
		if n == nil {
			return 0
		}
		if n.IsLeaf() {
			return 1
		}
		return count(n.Left) + count(n.Right)
	}
	return count(b.root)
}

// IntersectRay returns the closest hit along the ray. Ties go to the lower
// build index.
func (b *BVH) IntersectRay(r Ray) Intersection {
	best := NoHit()
	b.intersectRay(b.root, r, &best)
	return best
}

func (b *BVH) intersectRay(node *BVHNode, r Ray, best *Intersection) {
	tmin, _, ok := node.Box.IntersectRay(r)
	if !ok || (best.Hit && tmin > best.T) {
		return
	}

	if node.IsLeaf() {
		for _, idx := range node.Objects {
			isect := IntersectRayObject(r, b.objects[idx])
			if !isect.Hit {
				continue
			}
			isect.Index = idx
			if closerRayHit(isect, *best) {
				*best = isect
			}
		}
		return
	}

	// Visit the child the ray enters first; the far child is pruned above once
	// its entry distance exceeds the best hit.
	near, far := node.Left, node.Right
	if rayEntry(far.Box, r) < rayEntry(near.Box, r) {
		near, far = far, near
	}
	b.intersectRay(near, r, best)
	b.intersectRay(far, r, best)
}

func closerRayHit(candidate, best Intersection) bool {
	if !best.Hit {
		return true
	}
	if candidate.T != best.T {
		return candidate.T < best.T
	}
	return candidate.Index < best.Index
}

// IntersectSphere returns the deepest overlap with s. Ties go to the lower
// build index. s itself is skipped when it is part of the tree.
func (b *BVH) IntersectSphere(s *Sphere) Intersection {
	best := NoHit()
	b.visitSphere(b.root, s, s.BoundingBox(), func(isect Intersection) {
		if deeperOverlap(isect, best) {
			best = isect
		}
	})
	return best
}

// Overlaps returns every object overlapping s, ordered by build index.
func (b *BVH) Overlaps(s *Sphere) []Intersection {
	var out []Intersection
	b.visitSphere(b.root, s, s.BoundingBox(), func(isect Intersection) {
		out = append(out, isect)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

func (b *BVH) visitSphere(node *BVHNode, s *Sphere, query BoundingBox, fn func(Intersection)) {
	if !node.Box.Overlaps(query) {
		return
	}

	if node.IsLeaf() {
		for _, idx := range node.Objects {
			obj := b.objects[idx]
			if obj == Object(s) {
				continue
			}
			isect := IntersectSphereObject(s, obj)
			if !isect.Hit {
				continue
			}
			isect.Object = obj
			isect.Index = idx
			fn(isect)
		}
		return
	}

	b.visitSphere(node.Left, s, query, fn)
	b.visitSphere(node.Right, s, query, fn)
}

func deeperOverlap(candidate, best Intersection) bool {
	if !best.Hit {
		return true
	}
	if candidate.Depth != best.Depth {
		return candidate.Depth > best.Depth
	}
	return candidate.Index < best.Index
}

// LinearIntersectRay tests every object. It is the reference the BVH must agree with.
func LinearIntersectRay(objects []Object, r Ray) Intersection {
	best := NoHit()
	for i, obj := range objects {
		isect := IntersectRayObject(r, obj)
		if !isect.Hit {
			continue
		}
		isect.Index = i
		if closerRayHit(isect, best) {
			best = isect
		}
	}
	return best
}

// LinearIntersectSphere tests every object for the deepest overlap with s.
func LinearIntersectSphere(objects []Object, s *Sphere) Intersection {
	best := NoHit()
	for i, obj := range objects {
		if obj == Object(s) {
			continue
		}
		isect := IntersectSphereObject(s, obj)
		if !isect.Hit {
			continue
		}
		isect.Object = obj
		isect.Index = i
		if deeperOverlap(isect, best) {
			best = isect
		}
	}
	return best
}

// rayEntry is the distance at which r enters box, +Inf on a miss.
func rayEntry(box BoundingBox, r Ray) float64 {
	tmin, _, ok := box.IntersectRay(r)
	if !ok {
		return math.Inf(1)
	}
	return tmin
}
