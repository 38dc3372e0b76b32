package syntax

import "strings"

// Comment is a raw source comment.
type Comment struct {
	Block bool
	// Text is the comment body without its delimiters.
	Text string
}

// IsDoc reports whether the comment is a "/** ... */" documentation comment.
func (c Comment) IsDoc() bool {
	return c.Block && strings.HasPrefix(c.Text, "*")
}

func commentOf(n *Node) Comment {
	text := n.Text()
	if strings.HasPrefix(text, "/*") {
		return Comment{Block: true, Text: strings.TrimSuffix(strings.TrimPrefix(text, "/*"), "*/")}
	}
	return Comment{Text: strings.TrimPrefix(text, "//")}
}

// LeadingComments returns the comments between the previous named sibling (or
// the start of the parent) and n.
func (n *Node) LeadingComments() []Comment {
	var out []Comment
	for s := n.raw.PrevSibling(); s != nil; s = s.PrevSibling() {
		if s.Kind() == "comment" {
			out = append(out, commentOf(n.file.wrap(s)))
			continue
		}
		if s.IsNamed() {
			break
		}
	}
	// collected back to front
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// TrailingComments returns the comments between n and the next named sibling
// (or the end of the parent).
func (n *Node) TrailingComments() []Comment {
	var out []Comment
	for s := n.raw.NextSibling(); s != nil; s = s.NextSibling() {
		if s.Kind() == "comment" {
			out = append(out, commentOf(n.file.wrap(s)))
			continue
		}
		if s.IsNamed() {
			break
		}
	}
	return out
}

// InnerComments returns the comments of a node that has no other named
// children, such as an empty object body holding only a comment.
func (n *Node) InnerComments() []Comment {
	var out []Comment
	count := n.raw.NamedChildCount()
	for i := uint(0); i < count; i++ {
		child := n.raw.NamedChild(i)
		if child.Kind() != "comment" {
			return nil
		}
		out = append(out, commentOf(n.file.wrap(child)))
	}
	return out
}

// DeclarationComments returns the leading comments of a declaration, falling
// back to those of an enclosing export statement.
func (n *Node) DeclarationComments() []Comment {
	if comments := n.LeadingComments(); len(comments) > 0 {
		return comments
	}
	if parent := n.Parent(); parent != nil && parent.Kind() == "export_statement" {
		return parent.LeadingComments()
	}
	return nil
}

// NormalizeComment strips the leading "*" gutter and common indentation from
// a block comment and trims surrounding blank lines. Line comments are only
// trimmed.
func NormalizeComment(c Comment) string {
	if !c.Block {
		return strings.TrimSpace(c.Text)
	}

	lines := strings.Split(c.Text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, "*") {
			trimmed = strings.TrimPrefix(trimmed, "*")
			trimmed = strings.TrimPrefix(trimmed, " ")
		} else if i > 0 {
			trimmed = line
		}
		lines[i] = strings.TrimRight(trimmed, " \t\r")
	}

	indent := -1
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		width := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || width < indent {
			indent = width
		}
	}
	if indent > 0 {
		for i := 1; i < len(lines); i++ {
			if len(lines[i]) >= indent {
				lines[i] = lines[i][indent:]
			}
		}
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}
