package vfs

// Lookup walks root by the segments of path. It fails as soon as a segment
// is missing or a file is reached before the last segment. An empty path or
// "/" yields root itself.
func Lookup(root *Dir, path string) (Node, bool) {
	var cur Node = root
	for _, seg := range Segments(path) {
		dir, ok := cur.(*Dir)
		if !ok {
			return nil, false
		}
		child, ok := dir.Child(seg)
		if !ok {
			return nil, false
		}
		cur = child
	}
	return cur, true
}

// LookupDir is Lookup restricted to directories.
func LookupDir(root *Dir, path string) (*Dir, bool) {
	n, ok := Lookup(root, path)
	if !ok {
		return nil, false
	}
	d, ok := n.(*Dir)
	return d, ok
}
