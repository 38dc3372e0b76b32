package syntax

import (
	"bytes"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/reacttypes/pkg/parser"
)

// spreadMarker replaces the "..." of a spread member the grammar rejects. It
// has the same length, so every byte offset and line of the file is kept, and
// turns `...T` into the property signature `$$:T`.
var spreadMarker = []byte("$$:")

// maxSpreadPasses bounds reparsing; error recovery can hide a later spread
// until an earlier one is fixed.
const maxSpreadPasses = 8

// recoverSpreads rewrites object spreads that TSX cannot parse. Flow allows
// `...T` members in object types; TSX reports them as ERROR nodes. Each one is
// rewritten to a marked property and the source reparsed. Marked members
// report IsSpreadMember.
func (f *File) recoverSpreads(pm *parser.ParserManager) error {
	for pass := 0; pass < maxSpreadPasses && f.tree.RootNode().HasError(); pass++ {
		offsets := spreadCandidates(f.tree.RootNode(), f.Source, f.spreads)
		if len(offsets) == 0 {
			break
		}
		if f.spreads == nil {
			f.Source = bytes.Clone(f.Source)
			f.spreads = make(map[uint]bool)
		}
		for _, off := range offsets {
			copy(f.Source[off:], spreadMarker)
			f.spreads[off] = true
		}
		if err := f.reparse(pm); err != nil {
			return err
		}
	}
	if len(f.spreads) == 0 {
		return nil
	}

	// A rewrite that did not land on a member is undone.
	root := f.tree.RootNode()
	undone := false
	for off := range f.spreads {
		if spreadLanded(root, off) {
			continue
		}
		copy(f.Source[off:], "...")
		delete(f.spreads, off)
		undone = true
	}
	if undone {
		return f.reparse(pm)
	}
	return nil
}

func (f *File) reparse(pm *parser.ParserManager) error {
	tree, err := pm.ParseFile(f.Source, f.Dialect, f.Path)
	if err != nil {
		return err
	}
	f.tree.Close()
	f.tree = tree
	return nil
}

// spreadCandidates returns the offsets of "..." tokens inside ERROR nodes
// that start an object member: the previous token opens the object or ends
// the previous member.
func spreadCandidates(n *ts.Node, src []byte, seen map[uint]bool) []uint {
	if n == nil || !n.HasError() {
		return nil
	}
	if n.IsError() {
		var out []uint
		end := n.EndByte()
		for i := n.StartByte(); i+3 <= end; i++ {
			if !bytes.HasPrefix(src[i:], []byte("...")) {
				continue
			}
			if !seen[i] && opensMember(src, i) {
				out = append(out, i)
			}
			i += 2
		}
		return out
	}
	var out []uint
	for i := uint(0); i < n.ChildCount(); i++ {
		out = append(out, spreadCandidates(n.Child(i), src, seen)...)
	}
	return out
}

func opensMember(src []byte, at uint) bool {
	for i := int(at) - 1; i >= 0; i-- {
		switch src[i] {
		case ' ', '\t', '\r', '\n':
			continue
		case '{', '|', ',', ';':
			return true
		}
		return false
	}
	return false
}

// spreadLanded reports whether the marker at off parsed as the key of an
// object type member or object literal pair.
func spreadLanded(root *ts.Node, off uint) bool {
	key := root.NamedDescendantForByteRange(off, off+2)
	if key == nil || key.StartByte() != off || key.EndByte() != off+2 {
		return false
	}
	parent := key.Parent()
	if parent == nil {
		return false
	}
	switch parent.Kind() {
	case "property_signature", "pair":
		return parent.StartByte() == off
	}
	return false
}

// IsSpreadMember reports whether n is an object member that was written as
// `...T` and parsed as a marked property. Its "type" (or "value") field holds
// the spread target.
func (n *Node) IsSpreadMember() bool {
	return n.file.spreads[n.raw.StartByte()]
}
