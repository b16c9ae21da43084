// Package vfs implements the read-only in-memory filesystem the simulated
// shell operates on: a tree of directories and files, a pure path resolver,
// and a lookup that walks the tree by canonical path.
package vfs

import "fmt"

// Node is either a *File or a *Dir. The set is closed: only this package
// can add implementations.
type Node interface {
	isNode()
}

// File is a leaf holding text content.
type File struct {
	Content string
}

func (*File) isNode() {}

// Dir holds named children. Names are unique and keep insertion order for
// display.
type Dir struct {
	names    []string
	children map[string]Node
}

func (*Dir) isNode() {}

// NewDir creates an empty directory.
func NewDir() *Dir {
	return &Dir{children: make(map[string]Node)}
}

// Add inserts a child under name. It is only used while building a tree;
// re-adding an existing name is an error.
func (d *Dir) Add(name string, n Node) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("invalid entry name %q", name)
	}
	if n == nil {
		return fmt.Errorf("nil node for %q", name)
	}
	if _, exists := d.children[name]; exists {
		return fmt.Errorf("entry %q already exists", name)
	}
	d.names = append(d.names, name)
	d.children[name] = n
	return nil
}

// Child returns the entry called name.
func (d *Dir) Child(name string) (Node, bool) {
	n, ok := d.children[name]
	return n, ok
}

// Names returns the child names in insertion order.
func (d *Dir) Names() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// Len returns the number of children.
func (d *Dir) Len() int {
	return len(d.names)
}

// Entry describes one child for listings.
type Entry struct {
	Name  string
	IsDir bool
}

// Entries returns the children tagged file or directory, in display order.
func (d *Dir) Entries() []Entry {
	out := make([]Entry, 0, len(d.names))
	for _, name := range d.names {
		_, isDir := d.children[name].(*Dir)
		out = append(out, Entry{Name: name, IsDir: isDir})
	}
	return out
}

// Clone returns a deep copy of the directory and everything below it.
func (d *Dir) Clone() *Dir {
	c := &Dir{
		names:    make([]string, len(d.names)),
		children: make(map[string]Node, len(d.children)),
	}
	copy(c.names, d.names)
	for name, n := range d.children {
		c.children[name] = cloneNode(n)
	}
	return c
}

func cloneNode(n Node) Node {
	switch n := n.(type) {
	case *File:
		return &File{Content: n.Content}
	case *Dir:
		return n.Clone()
	default:
		panic(fmt.Sprintf("vfs: unknown node type %T", n))
	}
}

// Equal reports whether two trees have the same shape, names, order and
// content.
func Equal(a, b Node) bool {
	switch a := a.(type) {
	case *File:
		bf, ok := b.(*File)
		return ok && a.Content == bf.Content
	case *Dir:
		bd, ok := b.(*Dir)
		if !ok || len(a.names) != len(bd.names) {
			return false
		}
		for i, name := range a.names {
			if bd.names[i] != name {
				return false
			}
			if !Equal(a.children[name], bd.children[name]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
