package oecs

// ComponentID is a dense, small, non-negative integer identifying a
// component kind.
type ComponentID int

// FieldSchema describes one field of a component: its name and numeric
// element type. Field order is part of the schema and fixes the column
// index of the field within an archetype's column group.
type FieldSchema struct {
	Name string
	Type FieldType
}

// ComponentSchema is the static description of a component: its ID and an
// ordered list of fields. A component with zero fields is a tag component
// — it contributes a bit to the mask but owns no column data.
type ComponentSchema struct {
	ID     ComponentID
	Fields []FieldSchema
}

// IsTag reports whether this schema describes a tag component.
func (s ComponentSchema) IsTag() bool { return len(s.Fields) == 0 }

// fieldIndex returns the column index of a named field within this
// schema's ordered field list.
func (s ComponentSchema) fieldIndex(name string) (int, bool) {
	for i, f := range s.Fields {
		if f.Name == name {
			return i, true
		}
	}
	return -1, false
}

// MaskOf builds a BitSet signature from a set of component IDs.
func MaskOf(ids ...ComponentID) BitSet {
	var m BitSet
	for _, id := range ids {
		m.Set(int(id))
	}
	return m
}
