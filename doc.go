/*
Package oecs is an archetype-based Entity-Component-System storage engine.

It groups entities by the exact set of components they carry (an
"archetype"), stores component field data as dense columns per archetype,
and supports O(1) component add/remove transitions plus mask-based queries
over archetypes.

Core Concepts:

  - BitSet: an auto-growing signature of component IDs.
  - GrowableColumn: a typed, amortised-growth vector backing one field.
  - Archetype: the sparse-set + column-group owner for one signature.
  - ArchetypeRegistry: dedup, inverted index, and transition-edge cache.
  - World: a thin orchestrator gluing entity IDs to archetypes.

Basic Usage:

	world := oecs.NewWorld()

	position := oecs.ComponentSchema{ID: 1, Fields: []oecs.FieldSchema{
		{Name: "x", Type: oecs.F64}, {Name: "y", Type: oecs.F64},
	}}
	velocity := oecs.ComponentSchema{ID: 2, Fields: []oecs.FieldSchema{
		{Name: "x", Type: oecs.F64}, {Name: "y", Type: oecs.F64},
	}}
	world.RegisterComponent(position)
	world.RegisterComponent(velocity)

	e, _ := world.Spawn(position.ID, velocity.ID)
	_ = e

	cursor := oecs.NewCursor(world, oecs.MaskOf(position.ID, velocity.ID))
	x := oecs.NewField[float64](position.ID, "x")
	for cursor.Next() {
		v, _ := x.At(cursor)
		_ = v
	}

oecs is the storage core underneath a larger game/simulation framework, but
it works standalone.
*/
package oecs
