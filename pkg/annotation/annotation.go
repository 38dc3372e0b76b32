// Package annotation recognizes the comment tags that drive extraction.
package annotation

import (
	"strings"

	"github.com/gnana997/reacttypes/pkg/syntax"
)

// Tags understood in leading comments.
const (
	ReactComponent = "@ReactComponent"
	WithProps      = "@WithProps"
	ExcludeProp    = "@ExcludeProp"
)

// Has reports whether the nearest leading comment of n (or of the export
// statement wrapping it) carries tag: the first non-empty line, with the "*"
// gutter removed, must start with tag as a whole word.
func Has(n *syntax.Node, tag string) bool {
	comments := n.DeclarationComments()
	if len(comments) == 0 {
		return false
	}
	return HasTag(comments[len(comments)-1], tag)
}

// HasTag applies the tag test to a single comment.
func HasTag(c syntax.Comment, tag string) bool {
	for _, line := range strings.Split(c.Text, "\n") {
		line = strings.TrimLeft(line, " \t*")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		first, _, _ := strings.Cut(line, " ")
		return first == tag
	}
	return false
}
