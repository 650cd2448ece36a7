package schema

import "strings"

// Lookup resolves a type name against the whole tree rooted at n.
// Fully-qualified names (".pkg.Type" or "pkg.Type") are tried first; otherwise the first
// declaration whose dotted suffix matches, in declaration order, wins.
func (n *Namespace) Lookup(name string) (Node, bool) {
	name = strings.TrimPrefix(name, ".")
	if name == "" {
		return nil, false
	}
	parts := strings.Split(name, ".")
	if node := n.find(parts); node != nil {
		return node, true
	}
	for _, ns := range n.Namespaces() {
		if node, ok := ns.Lookup(name); ok {
			return node, true
		}
	}
	return nil, false
}

// Resolve resolves a type name written inside scope (a dotted namespace path) using protobuf
// scoping: innermost scope first, then each enclosing scope, then the whole tree.
func (n *Namespace) Resolve(scope, name string) (Node, bool) {
	if strings.HasPrefix(name, ".") {
		node := n.find(strings.Split(strings.TrimPrefix(name, "."), "."))
		return node, node != nil
	}
	parts := strings.Split(name, ".")
	scope = strings.Trim(scope, ".")
	for {
		if ns := n.Namespace(scope); ns != nil {
			if node := ns.find(parts); node != nil {
				return node, true
			}
		}
		if scope == "" {
			break
		}
		if i := strings.LastIndex(scope, "."); i >= 0 {
			scope = scope[:i]
		} else {
			scope = ""
		}
	}
	return n.Lookup(name)
}

// ResolveMessage resolves name in scope and reports whether it names a message.
func (n *Namespace) ResolveMessage(scope, name string) (*Message, bool) {
	node, ok := n.Resolve(scope, name)
	if !ok {
		return nil, false
	}
	m, ok := node.(*Message)
	return m, ok
}

// find walks an exact dotted path below n.
func (n *Namespace) find(parts []string) Node {
	cur := n
	for i, part := range parts {
		if i == len(parts)-1 {
			if node := cur.child(part, false); node != nil {
				return node
			}
			return cur.child(part, true)
		}
		next := cur.child(part, true)
		if next == nil {
			return nil
		}
		cur = next.(*Namespace)
	}
	return nil
}

// Walk calls fn for every namespace below and including n, depth first in declaration order.
func (n *Namespace) Walk(fn func(ns *Namespace)) {
	fn(n)
	for _, ns := range n.Namespaces() {
		ns.Walk(fn)
	}
}
