package kinds

// UnwrapGeneric removes one generic wrapper, if present.
func UnwrapGeneric(k Kind) Kind {
	if g, ok := k.(*Generic); ok && g.Value != nil {
		return g.Value
	}
	return k
}

// ResolveFromGeneric removes every generic wrapper around k.
func ResolveFromGeneric(k Kind) Kind {
	for {
		g, ok := k.(*Generic)
		if !ok || g.Value == nil {
			return k
		}
		k = g.Value
	}
}

// FindProperty returns the property of k whose key matches key. Intersections
// are searched branch by branch, after unwrapping one generic layer, and the
// first branch holding a match wins. Within an object the last matching
// member wins, as it overrides any earlier one (a key after a spread).
func FindProperty(k Kind, key Kind) *Property {
	switch v := UnwrapGeneric(k).(type) {
	case *Intersection:
		for _, branch := range v.Types {
			if p := FindProperty(branch, key); p != nil {
				return p
			}
		}
	case *Object:
		for i := len(v.Members) - 1; i >= 0; i-- {
			if p, ok := v.Members[i].(*Property); ok && SameKey(p.Key, key) {
				return p
			}
		}
	}
	return nil
}

// SameKey reports whether two property keys have the same kind and the same
// name or literal value.
func SameKey(a, b Kind) bool {
	switch x := a.(type) {
	case *ID:
		y, ok := b.(*ID)
		return ok && x.Name == y.Name
	case *String:
		y, ok := b.(*String)
		return ok && x.Value != nil && y.Value != nil && *x.Value == *y.Value
	}
	return false
}

// KeyName renders a property key for diagnostics.
func KeyName(k Kind) string {
	switch v := k.(type) {
	case *ID:
		return v.Name
	case *String:
		if v.Value != nil {
			return *v.Value
		}
	}
	if k == nil {
		return ""
	}
	return string(k.Tag())
}
