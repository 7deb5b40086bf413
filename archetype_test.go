package oecs

import "testing"

const (
	compPosition ComponentID = iota
	compVelocity
	compTag
)

func schemas() map[ComponentID]ComponentSchema {
	return map[ComponentID]ComponentSchema{
		compPosition: {ID: compPosition, Fields: []FieldSchema{{Name: "x", Type: F64}, {Name: "y", Type: F64}}},
		compVelocity: {ID: compVelocity, Fields: []FieldSchema{{Name: "dx", Type: F32}, {Name: "dy", Type: F32}}},
		compTag:      {ID: compTag},
	}
}

func TestArchetypeAddAndRemoveEntity(t *testing.T) {
	a := newArchetype(0, MaskOf(compPosition), schemas())
	id := NewEntityID(5, 0)
	row := a.AddEntity(id, 5)
	if row != 0 {
		t.Fatalf("expected first row to be 0, got %d", row)
	}
	if a.EntityCount() != 1 {
		t.Fatalf("expected entity count 1, got %d", a.EntityCount())
	}
	if got := a.GetRow(5); got != 0 {
		t.Fatalf("expected row 0 for entity index 5, got %d", got)
	}

	swapped, err := a.RemoveEntity(5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if swapped != emptyRow {
		t.Fatalf("removing the only row should report no swap, got %d", swapped)
	}
	if a.EntityCount() != 0 {
		t.Fatalf("expected entity count 0 after remove, got %d", a.EntityCount())
	}
}

func TestArchetypeRemoveEntitySwapsLastRow(t *testing.T) {
	a := newArchetype(0, MaskOf(compPosition), schemas())
	idA := NewEntityID(1, 0)
	idB := NewEntityID(2, 0)
	idC := NewEntityID(3, 0)
	a.AddEntity(idA, 1)
	a.AddEntity(idB, 2)
	a.AddEntity(idC, 3)

	swapped, err := a.RemoveEntity(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if swapped != 3 {
		t.Fatalf("expected entity index 3 (last row) to be swapped in, got %d", swapped)
	}
	if a.GetRow(3) != 0 {
		t.Fatalf("swapped entity should now occupy row 0, got %d", a.GetRow(3))
	}
	if a.HasEntity(1) {
		t.Fatal("removed entity must no longer be present")
	}
	if a.EntityCount() != 2 {
		t.Fatalf("expected entity count 2, got %d", a.EntityCount())
	}
}

func TestArchetypeRemoveEntityNotPresent(t *testing.T) {
	a := newArchetype(0, MaskOf(compPosition), schemas())
	if _, err := a.RemoveEntity(99); err == nil {
		t.Fatal("expected precondition error for removing an absent entity")
	}
}

func TestArchetypeWriteReadFields(t *testing.T) {
	a := newArchetype(0, MaskOf(compPosition), schemas())
	row := a.AddEntity(NewEntityID(1, 0), 1)
	if err := a.WriteFields(row, compPosition, map[string]float64{"x": 1.5, "y": 2.5}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	x, err := a.ReadField(row, compPosition, "x")
	if err != nil || x != 1.5 {
		t.Fatalf("got (%v, %v), want (1.5, nil)", x, err)
	}
	group, err := a.ReadGroup(row, compPosition)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if group["x"] != 1.5 || group["y"] != 2.5 {
		t.Fatalf("unexpected group contents: %v", group)
	}
}

func TestArchetypeTagComponentHasNoColumns(t *testing.T) {
	a := newArchetype(0, MaskOf(compTag), schemas())
	row := a.AddEntity(NewEntityID(1, 0), 1)

	col, err := a.GetColumn(compTag, "anything")
	if err != nil || col != nil {
		t.Fatalf("tag component should report (nil, nil), got (%v, %v)", col, err)
	}
	v, err := a.ReadField(row, compTag, "anything")
	if err != nil {
		t.Fatalf("unexpected error reading tag field: %v", err)
	}
	if v == v {
		t.Fatalf("expected NaN for tag component field read, got %v", v)
	}
	group, err := a.ReadGroup(row, compTag)
	if err != nil || len(group) != 0 {
		t.Fatalf("expected empty group for tag component, got (%v, %v)", group, err)
	}
}

func TestArchetypeUnknownComponent(t *testing.T) {
	a := newArchetype(0, MaskOf(compPosition), schemas())
	if _, err := a.GetColumn(compVelocity, "dx"); err == nil {
		t.Fatal("expected UnknownComponentError for a component outside the archetype's signature")
	}
}

func TestArchetypeCopySharedFrom(t *testing.T) {
	src := newArchetype(0, MaskOf(compPosition, compVelocity), schemas())
	dst := newArchetype(1, MaskOf(compPosition), schemas())

	srcRow := src.AddEntity(NewEntityID(1, 0), 1)
	src.WriteFields(srcRow, compPosition, map[string]float64{"x": 9, "y": 8})
	src.WriteFields(srcRow, compVelocity, map[string]float64{"dx": 1, "dy": 1})

	dstRow := dst.AddEntity(NewEntityID(1, 0), 1)
	dst.CopySharedFrom(src, srcRow, dstRow)

	x, _ := dst.ReadField(dstRow, compPosition, "x")
	y, _ := dst.ReadField(dstRow, compPosition, "y")
	if x != 9 || y != 8 {
		t.Fatalf("expected shared position fields copied, got x=%v y=%v", x, y)
	}
}

func TestArchetypeEdgeCaching(t *testing.T) {
	a := newArchetype(0, MaskOf(compPosition), schemas())
	if _, ok := a.edgeAdd(compVelocity); ok {
		t.Fatal("no edge should be cached yet")
	}
	a.setEdgeAdd(compVelocity, 7)
	target, ok := a.edgeAdd(compVelocity)
	if !ok || target != 7 {
		t.Fatalf("expected cached add edge to 7, got (%v, %v)", target, ok)
	}
}
