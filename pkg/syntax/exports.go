package syntax

// Match is the result of looking up an exported name in a module.
type Match struct {
	// Node is what the name refers to: a declaration statement, a default
	// export expression, a re-exporting export statement, or the import
	// statement of a re-exported import.
	Node *Node

	// Local is the name the match has inside the module; empty for anonymous
	// default exports.
	Local string
}

// MatchExported finds the export of f named name ("default" for the default
// export). Wildcard re-exports are not followed; see ExportAllSources.
func MatchExported(f *File, name string) (Match, bool) {
	for _, stmt := range f.Root().Named() {
		if stmt.Kind() != "export_statement" {
			continue
		}

		isDefault := stmt.HasToken("default")

		if decl := stmt.Field("declaration"); decl != nil {
			if isDefault {
				if name == "default" {
					return Match{Node: decl, Local: declaredName(decl)}, true
				}
				continue
			}
			for _, declared := range DeclaredNames(decl) {
				if declared == name {
					return Match{Node: decl, Local: name}, true
				}
			}
			continue
		}

		if value := stmt.Field("value"); value != nil && isDefault {
			if name == "default" {
				local := ""
				if value.Kind() == "identifier" {
					local = value.Text()
				}
				return Match{Node: value, Local: local}, true
			}
			continue
		}

		clause := stmt.ChildOfKind("export_clause")
		if clause == nil {
			continue
		}
		for _, spec := range clause.Named() {
			if spec.Kind() != "export_specifier" {
				continue
			}
			local, exported := SpecifierNames(spec)
			if exported != name {
				continue
			}
			if stmt.Field("source") != nil {
				return Match{Node: stmt, Local: local}, true
			}
			if m, ok := matchLocal(f, local); ok {
				return m, true
			}
		}
	}
	return Match{}, false
}

// matchLocal resolves a locally declared name re-exported through an export
// clause without a source.
func matchLocal(f *File, local string) (Match, bool) {
	b := f.TopLevelValue(local)
	if b == nil {
		b = f.TopLevelType(local)
	}
	if b == nil || b.Decl == nil {
		return Match{}, false
	}

	switch b.Kind {
	case BindingVariable:
		// the whole declaration, as for `export const`
		if parent := b.Decl.Parent(); parent != nil {
			return Match{Node: parent, Local: local}, true
		}
	case BindingImport:
		for cur := b.Decl; cur != nil; cur = cur.Parent() {
			if cur.Kind() == "import_statement" {
				return Match{Node: cur, Local: local}, true
			}
		}
	}
	return Match{Node: b.Decl, Local: local}, true
}

// SpecifierNames returns the local and exported names of an export or import
// specifier. Without an alias both are the same.
func SpecifierNames(spec *Node) (local, exported string) {
	name := spec.Field("name")
	if name == nil {
		return "", ""
	}
	local = specifierText(name)
	exported = local
	if alias := spec.Field("alias"); alias != nil {
		exported = specifierText(alias)
	}
	return local, exported
}

// specifierText handles string module export names (`export { "a-b" as c }`).
func specifierText(n *Node) string {
	if n.Kind() == "string" {
		return n.StringValue()
	}
	return n.Text()
}

// ExportAllSources returns the module specifiers of the wildcard re-exports
// (`export * from "..."`) of f, in source order.
func ExportAllSources(f *File) []string {
	var out []string
	for _, stmt := range f.Root().Named() {
		if stmt.Kind() != "export_statement" || !stmt.HasToken("*") {
			continue
		}
		if stmt.ChildOfKind("namespace_export") != nil {
			continue
		}
		if source := stmt.Field("source"); source != nil {
			out = append(out, source.StringValue())
		}
	}
	return out
}

// DeclaredNames returns the names a declaration statement introduces.
func DeclaredNames(decl *Node) []string {
	switch decl.Kind() {
	case "lexical_declaration", "variable_declaration":
		var out []string
		for _, d := range decl.Named() {
			if d.Kind() != "variable_declarator" {
				continue
			}
			for _, id := range patternNames(d.Field("name")) {
				out = append(out, id.Text())
			}
		}
		return out
	}
	if name := declaredName(decl); name != "" {
		return []string{name}
	}
	return nil
}

func declaredName(decl *Node) string {
	if name := decl.Field("name"); name != nil {
		return name.Text()
	}
	return ""
}
