package mathc

// Table is an immutable name -> value map. Set returns a new table sharing
// all existing bindings with the receiver, so holding on to a *Table is a
// snapshot. The nil *Table is the empty table.
type Table[V any] struct {
	name   Name
	value  V
	parent *Table[V]
	size   int
}

func (t *Table[V]) Set(name Name, value V) *Table[V] {
	return &Table[V]{
		name:   name,
		value:  value,
		parent: t,
		size:   t.Len() + 1,
	}
}

// Get returns the most recent binding of name.
func (t *Table[V]) Get(name Name) (V, bool) {
	for e := t; e != nil; e = e.parent {
		if e.name == name {
			return e.value, true
		}
	}

	var zero V
	return zero, false
}

// Len counts bindings, including shadowed ones.
func (t *Table[V]) Len() int {
	if t == nil {
		return 0
	}

	return t.size
}

// Names lists each bound name once, most recent first.
func (t *Table[V]) Names() []Name {
	var names []Name
	seen := make(map[Name]bool)
	for e := t; e != nil; e = e.parent {
		if !seen[e.name] {
			seen[e.name] = true
			names = append(names, e.name)
		}
	}

	return names
}
