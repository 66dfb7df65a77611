package scene

import (
	"github.com/MindPort-GmbH/Z-Anatomy-Sample/carve"
	"github.com/MindPort-GmbH/Z-Anatomy-Sample/core"
	"github.com/MindPort-GmbH/Z-Anatomy-Sample/math"
)

// Node represents an object in the scene graph. Nodes double as the physical
// candidates the overlap query returns and as the rendering surfaces the
// clipping engine registers: they satisfy carve.Collidable and carve.Surface.
type Node struct {
	Name      string
	Transform core.Transform
	Parent    *Node
	Children  []*Node
	Mesh      *Mesh
	Visible   bool
	Id        uint32

	// Layer is the physical layer index, tested against the cutter's
	// layer mask during registration.
	Layer int

	// Collider is the node's physical volume for overlap queries: a box of
	// the given half extents centered on the node. Nil means the node only
	// participates through its mesh bounds.
	Collider *BoxCollider

	// overrides is the lazily created per-instance property block. It wins
	// over scene globals for this node only.
	overrides *PropertyBlock

	destroyed bool

	// Cached world transform
	worldMatrixDirty bool
	worldMatrix      math.Mat4
}

// BoxCollider is an axis-aligned box in node-local space.
type BoxCollider struct {
	HalfExtents math.Vec3
}

var nodeIdCounter uint32 = 0

func NewNode(name string) *Node {
	nodeIdCounter++
	return &Node{
		Name:             name,
		Transform:        core.NewTransform(),
		Children:         make([]*Node, 0),
		Visible:          true,
		Id:               nodeIdCounter,
		worldMatrixDirty: true,
	}
}

func (n *Node) AddChild(child *Node) {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = n
	n.Children = append(n.Children, child)
	child.MarkWorldMatrixDirty()
}

func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			child.MarkWorldMatrixDirty()
			return
		}
	}
}

// Destroy detaches the node and marks it and its subtree dead. Registries
// holding destroyed nodes prune them lazily; the scene graph drops them here.
func (n *Node) Destroy() {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
	n.Traverse(func(d *Node) {
		d.destroyed = true
	})
}

func (n *Node) GetWorldMatrix() math.Mat4 {
	if n.worldMatrixDirty {
		// Row-vector convention: the local matrix applies before the parent's.
		localMatrix := n.Transform.GetMatrix()
		if n.Parent != nil {
			n.worldMatrix = localMatrix.Mul(n.Parent.GetWorldMatrix())
		} else {
			n.worldMatrix = localMatrix
		}
		n.worldMatrixDirty = false
	}
	return n.worldMatrix
}

func (n *Node) MarkWorldMatrixDirty() {
	n.worldMatrixDirty = true
	for _, child := range n.Children {
		child.MarkWorldMatrixDirty()
	}
}

func (n *Node) SetPosition(pos math.Vec3) {
	n.Transform.Position = pos
	n.MarkWorldMatrixDirty()
}

func (n *Node) SetRotation(rot math.Quaternion) {
	n.Transform.Rotation = rot
	n.MarkWorldMatrixDirty()
}

func (n *Node) SetScale(scale math.Vec3) {
	n.Transform.Scale = scale
	n.MarkWorldMatrixDirty()
}

func (n *Node) Translate(delta math.Vec3) {
	n.Transform.Position = n.Transform.Position.Add(delta)
	n.MarkWorldMatrixDirty()
}

func (n *Node) Rotate(axis math.Vec3, angle float32) {
	rotation := math.QuaternionFromAxisAngle(axis, angle)
	n.Transform.Rotation = n.Transform.Rotation.Mul(rotation).Normalize()
	n.MarkWorldMatrixDirty()
}

// Root returns the topmost ancestor.
func (n *Node) Root() *Node {
	root := n
	for root.Parent != nil {
		root = root.Parent
	}
	return root
}

// Traverse visits all nodes in the subtree.
func (n *Node) Traverse(callback func(*Node)) {
	callback(n)
	for _, child := range n.Children {
		child.Traverse(callback)
	}
}

// Find finds a node by name.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, child := range n.Children {
		if found := child.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// ── carve.Collidable ──────────────────────────────────────────────────────────

// CollisionLayer returns the node's physical layer index.
func (n *Node) CollisionLayer() int {
	return n.Layer
}

// RenderSurface walks from the node up through its ancestors and returns the
// nearest one carrying a mesh, or nil when the hierarchy has no renderable.
func (n *Node) RenderSurface() carve.Surface {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Mesh != nil {
			return cur
		}
	}
	return nil
}

// SharesHierarchy reports whether other is in the node's own subtree or one
// of its ancestors. The scene root is a common ancestor of everything, so a
// plain root comparison would exclude the whole scene; only direct lineage
// counts as shared.
func (n *Node) SharesHierarchy(other carve.Collidable) bool {
	otherNode, ok := other.(*Node)
	if !ok {
		return false
	}
	return n.hasAncestor(otherNode) || otherNode.hasAncestor(n)
}

func (n *Node) hasAncestor(a *Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur == a {
			return true
		}
	}
	return false
}

// ── carve.Surface ─────────────────────────────────────────────────────────────

// Alive reports whether the node is still a valid publish target.
func (n *Node) Alive() bool {
	return !n.destroyed
}

// Override returns the node's per-instance property block, creating it on
// first use. Per-instance blocks accept any property name.
func (n *Node) Override() carve.Paintable {
	if n.overrides == nil {
		n.overrides = NewOpenPropertyBlock()
	}
	return n.overrides
}

// OverrideBlock is Override without the interface wrapper, for readers such
// as the renderer. Returns nil when no override was ever written.
func (n *Node) OverrideBlock() *PropertyBlock {
	return n.overrides
}

// Materials returns the materials the node renders with.
func (n *Node) Materials() []carve.Material {
	if n.Mesh == nil || n.Mesh.Material == nil {
		return nil
	}
	return []carve.Material{n.Mesh.Material}
}
