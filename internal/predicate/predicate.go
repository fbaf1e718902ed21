// Package predicate models boolean query conditions as an immutable
// tree of AND/OR/NOT/leaf nodes with bound parameters.
//
// The search core builds trees purely, then compiles them once to a
// parameterized SQL condition. Grouping in the compiled SQL follows
// the tree shape exactly; operator precedence is never left to SQL
// defaults.
package predicate

import "strings"

// Node is a boolean condition composable via And/Or/Not.
type Node interface {
	node()
}

// Leaf is a raw SQL condition with its bound arguments.
type Leaf struct {
	Cond string
	Args []any
}

func (Leaf) node() {}

// AndNode requires all children to hold.
type AndNode struct {
	Children []Node
}

func (AndNode) node() {}

// OrNode requires at least one child to hold.
type OrNode struct {
	Children []Node
}

func (OrNode) node() {}

// NotNode negates its child.
type NotNode struct {
	Child Node
}

func (NotNode) node() {}

// NewLeaf builds a leaf condition.
func NewLeaf(cond string, args ...any) Node {
	return Leaf{Cond: cond, Args: args}
}

// And combines nodes conjunctively. Nil children are dropped; an empty
// combination is nil (no condition); a single child is returned as-is.
func And(nodes ...Node) Node {
	kept := compact(nodes)
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	}
	return AndNode{Children: kept}
}

// Or combines nodes disjunctively, with the same nil/empty/single
// handling as And.
func Or(nodes ...Node) Node {
	kept := compact(nodes)
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	}
	return OrNode{Children: kept}
}

// Not negates a node. Not(nil) is nil.
func Not(n Node) Node {
	if n == nil {
		return nil
	}
	return NotNode{Child: n}
}

// SQL compiles the tree to a parenthesized SQL condition and its flat
// argument list. A nil node compiles to the empty string.
func SQL(n Node) (string, []any) {
	if n == nil {
		return "", nil
	}

	switch t := n.(type) {
	case Leaf:
		return "(" + t.Cond + ")", t.Args
	case AndNode:
		return joinChildren(t.Children, " AND ")
	case OrNode:
		return joinChildren(t.Children, " OR ")
	case NotNode:
		cond, args := SQL(t.Child)
		return "NOT " + cond, args
	}
	return "", nil
}

func joinChildren(children []Node, sep string) (string, []any) {
	conds := make([]string, 0, len(children))
	var args []any
	for _, child := range children {
		cond, childArgs := SQL(child)
		conds = append(conds, cond)
		args = append(args, childArgs...)
	}
	return "(" + strings.Join(conds, sep) + ")", args
}

func compact(nodes []Node) []Node {
	var kept []Node
	for _, n := range nodes {
		if n != nil {
			kept = append(kept, n)
		}
	}
	return kept
}
