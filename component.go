package oecs

// Field is a typed accessor for one field of one component, adapted from
// the teacher's AccessibleComponent[T]/table.Accessor[T] pairing but
// re-pointed at this package's own GrowableColumn[T]/TypedColumn[T] instead
// of a reflection-driven table column.
type Field[T Numeric] struct {
	Component ComponentID
	Name      string
}

// NewField builds a typed accessor for component's field name.
func NewField[T Numeric](component ComponentID, name string) Field[T] {
	return Field[T]{Component: component, Name: name}
}

// At reads the field's value for the row the cursor is currently
// positioned at.
func (f Field[T]) At(c *Cursor) (T, error) {
	return f.Get(c.CurrentArchetype(), c.Row())
}

// SetAt writes the field's value for the row the cursor is currently
// positioned at.
func (f Field[T]) SetAt(c *Cursor, v T) error {
	return f.Set(c.CurrentArchetype(), c.Row(), v)
}

// Get reads the field's value at row within archetype.
func (f Field[T]) Get(archetype *Archetype, row int) (T, error) {
	var zero T
	col, err := archetype.GetColumn(f.Component, f.Name)
	if err != nil {
		return zero, err
	}
	if col == nil {
		return zero, UnknownFieldError{Component: f.Component, Field: f.Name}
	}
	typed, ok := TypedColumn[T](col)
	if !ok {
		return zero, UnknownFieldError{Component: f.Component, Field: f.Name}
	}
	return typed.Get(row), nil
}

// Set writes the field's value at row within archetype.
func (f Field[T]) Set(archetype *Archetype, row int, v T) error {
	col, err := archetype.GetColumn(f.Component, f.Name)
	if err != nil {
		return err
	}
	if col == nil {
		return UnknownFieldError{Component: f.Component, Field: f.Name}
	}
	typed, ok := TypedColumn[T](col)
	if !ok {
		return UnknownFieldError{Component: f.Component, Field: f.Name}
	}
	typed.SetAt(row, v)
	return nil
}
