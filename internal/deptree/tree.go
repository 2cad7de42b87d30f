package deptree

import (
	"fmt"
	"sort"
	"strconv"
)

// RootRel is the relation label of the virtual root at address 0.
const RootRel = "TOP"

// Node is one token of a dependency tree.
//
// Address 0 is the virtual root; it has no word and RootRel as its
// relation. Deps maps a relation label to the addresses of the dependents
// attached with that label, in ascending order. Nodes returned by a Tree
// share its Deps maps and must be treated as read-only.
type Node struct {
	Address int
	Word    string
	Lemma   string
	CTag    string // coarse category
	Tag     string // part-of-speech tag
	Feats   string
	Rel     string // relation to Head
	Head    int
	Deps    map[string][]int
}

// Attribute names a Node reads by Attr.
var attributeNames = []string{"address", "word", "lemma", "ctag", "tag", "feats", "rel", "head", "deps"}

// IsAttribute reports whether name is a node attribute known to Attr.
func IsAttribute(name string) bool {
	for _, a := range attributeNames {
		if a == name {
			return true
		}
	}
	return false
}

// Value is an attribute value. Key collections (deps) are reported through
// Keys with IsKeys set; every other attribute is a scalar string.
type Value struct {
	Scalar string
	Keys   []string
	IsKeys bool
}

// Attr returns the attribute called name. The second result is false for
// unknown names.
func (n Node) Attr(name string) (Value, bool) {
	switch name {
	case "address":
		return Value{Scalar: strconv.Itoa(n.Address)}, true
	case "word":
		return Value{Scalar: n.Word}, true
	case "lemma":
		return Value{Scalar: n.Lemma}, true
	case "ctag":
		return Value{Scalar: n.CTag}, true
	case "tag":
		return Value{Scalar: n.Tag}, true
	case "feats":
		return Value{Scalar: n.Feats}, true
	case "rel":
		return Value{Scalar: n.Rel}, true
	case "head":
		return Value{Scalar: strconv.Itoa(n.Head)}, true
	case "deps":
		keys := make([]string, 0, len(n.Deps))
		for rel := range n.Deps {
			keys = append(keys, rel)
		}
		sort.Strings(keys)
		return Value{Keys: keys, IsKeys: true}, true
	default:
		return Value{}, false
	}
}

// Tree is an immutable, validated dependency tree.
//
// INVARIANTS (checked by New):
//   - addresses are unique and positive; address 0 is the virtual root
//   - every head denotes an existing node
//   - Deps is exactly the inverse of Head/Rel
//   - following heads from any node reaches address 0 (acyclic)
//
// A single sentence root is not enforced here; Root reports it.
type Tree struct {
	nodes map[int]Node
	addrs []int // ascending, including 0
}

// New builds a tree from the tokens of one sentence. The virtual root is
// added automatically and must not be part of nodes.
//
// Deps of an input node may be nil, in which case they are derived from
// Head and Rel. When given, they must agree with Head and Rel.
func New(nodes []Node) (*Tree, error) {
	t := &Tree{nodes: make(map[int]Node, len(nodes)+1)}
	t.nodes[0] = Node{Address: 0, Rel: RootRel, CTag: RootRel, Tag: RootRel, Head: -1}

	for _, n := range nodes {
		if n.Address <= 0 {
			return nil, &StructureError{Address: n.Address, Message: "address must be positive"}
		}
		if _, dup := t.nodes[n.Address]; dup {
			return nil, &StructureError{Address: n.Address, Message: "duplicate address"}
		}
		t.nodes[n.Address] = n
	}

	derived := make(map[int]map[string][]int, len(t.nodes))
	for addr := range t.nodes {
		derived[addr] = make(map[string][]int)
	}
	for _, n := range nodes {
		if _, ok := t.nodes[n.Head]; !ok {
			return nil, &StructureError{
				Address: n.Address,
				Message: fmt.Sprintf("head %d does not exist", n.Head),
			}
		}
		derived[n.Head][n.Rel] = append(derived[n.Head][n.Rel], n.Address)
	}
	for addr, deps := range derived {
		for rel := range deps {
			sort.Ints(deps[rel])
		}
		if declared := t.nodes[addr].Deps; declared != nil && addr != 0 {
			if err := sameDeps(addr, declared, deps); err != nil {
				return nil, err
			}
		}
		n := t.nodes[addr]
		n.Deps = deps
		t.nodes[addr] = n
	}

	for addr := range t.nodes {
		t.addrs = append(t.addrs, addr)
	}
	sort.Ints(t.addrs)

	if err := t.checkAcyclic(); err != nil {
		return nil, err
	}
	return t, nil
}

func sameDeps(addr int, declared, derived map[string][]int) error {
	mismatch := &StructureError{Address: addr, Message: "deps disagree with heads"}
	if len(declared) != len(derived) {
		return mismatch
	}
	for rel, want := range derived {
		got := append([]int(nil), declared[rel]...)
		sort.Ints(got)
		if len(got) != len(want) {
			return mismatch
		}
		for i := range got {
			if got[i] != want[i] {
				return mismatch
			}
		}
	}
	return nil
}

// checkAcyclic walks up from every node. A walk longer than the number of
// nodes has revisited a node.
func (t *Tree) checkAcyclic() error {
	for _, addr := range t.addrs {
		cur := addr
		for hops := 0; cur != 0; hops++ {
			if hops > len(t.addrs) {
				return &StructureError{Address: addr, Message: "cycle in head chain"}
			}
			cur = t.nodes[cur].Head
		}
	}
	return nil
}

// Len returns the number of nodes, including the virtual root.
func (t *Tree) Len() int { return len(t.addrs) }

// Addresses returns all addresses in ascending order, starting with 0.
func (t *Tree) Addresses() []int {
	return append([]int(nil), t.addrs...)
}

// Node returns the node at addr.
func (t *Tree) Node(addr int) (Node, bool) {
	n, ok := t.nodes[addr]
	return n, ok
}

// Dependents returns the addresses of all dependents of addr across every
// relation, in ascending order.
func (t *Tree) Dependents(addr int) []int {
	n, ok := t.nodes[addr]
	if !ok {
		return nil
	}
	var out []int
	for _, deps := range n.Deps {
		out = append(out, deps...)
	}
	sort.Ints(out)
	return out
}

// Root returns the address of the sentence root, the sole dependent of the
// virtual root.
func (t *Tree) Root() (int, error) {
	roots := t.Dependents(0)
	switch len(roots) {
	case 1:
		return roots[0], nil
	case 0:
		return 0, &StructureError{Address: 0, Message: "the tree has no root"}
	default:
		return 0, &StructureError{
			Address: 0,
			Message: fmt.Sprintf("the tree has more than one root: %v", roots),
		}
	}
}
