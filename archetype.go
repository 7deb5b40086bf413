package oecs

// ArchetypeID is a stable, dense, never-reused archetype identifier that
// indexes directly into the registry's archetype vector.
type ArchetypeID uint32

// EntityID is an opaque handle encoding a stable entity index (low bits)
// and a generation counter (high bits). The core only ever consumes the
// index; the generation is carried as an opaque payload for use-after-free
// detection one layer above (World).
type EntityID uint64

// NewEntityID packs an index and a generation into an EntityID.
func NewEntityID(index int, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(uint32(index)))
}

// Index returns the stable entity index.
func (e EntityID) Index() int { return int(uint32(e)) }

// Generation returns the generation counter.
func (e EntityID) Generation() uint32 { return uint32(e >> 32) }

// edgePair caches the lazily-populated add/remove transition targets for
// one component ID on one archetype.
type edgePair struct {
	add, remove       ArchetypeID
	hasAdd, hasRemove bool
}

// columnGroup is one component's ordered list of field columns plus the
// layout needed to resolve a field name to a column index.
type columnGroup struct {
	schema  ComponentSchema
	columns []Column // len == len(schema.Fields); empty for tag components
}

func newColumnGroup(schema ComponentSchema) *columnGroup {
	cols := make([]Column, len(schema.Fields))
	for i, f := range schema.Fields {
		cols[i] = NewColumn(f.Type)
	}
	return &columnGroup{schema: schema, columns: cols}
}

// Archetype owns the membership sparse-set and column-group storage for
// every entity sharing one component signature (spec.md §3/§4.4).
type Archetype struct {
	id     ArchetypeID
	mask   BitSet // immutable once published by the registry
	length int

	entityIDs  denseVector[EntityID]
	indexToRow SparseMap[int]

	groups  map[ComponentID]*columnGroup
	schemas map[ComponentID]ComponentSchema

	edges map[ComponentID]*edgePair

	entityListCache []EntityID
	entityListDirty bool
}

func newArchetype(id ArchetypeID, mask BitSet, schemas map[ComponentID]ComponentSchema) *Archetype {
	a := &Archetype{
		id:              id,
		mask:            mask,
		groups:          make(map[ComponentID]*columnGroup, len(schemas)),
		schemas:         make(map[ComponentID]ComponentSchema, len(schemas)),
		edges:           make(map[ComponentID]*edgePair),
		entityListDirty: true,
	}
	for cid, schema := range schemas {
		if !mask.Has(int(cid)) {
			continue
		}
		a.schemas[cid] = schema
		if !schema.IsTag() {
			a.groups[cid] = newColumnGroup(schema)
		}
	}
	return a
}

// ID returns the archetype's stable identifier.
func (a *Archetype) ID() ArchetypeID { return a.id }

// Mask returns the archetype's frozen component signature.
func (a *Archetype) Mask() BitSet { return a.mask }

// HasComponent reports whether component id is part of this archetype's
// signature.
func (a *Archetype) HasComponent(id ComponentID) bool { return a.mask.Has(int(id)) }

// Matches reports whether this archetype's mask is a superset of required.
func (a *Archetype) Matches(required BitSet) bool { return a.mask.Contains(required) }

// HasEntity reports whether entityIndex currently has a row in this
// archetype.
func (a *Archetype) HasEntity(entityIndex int) bool {
	_, ok := a.indexToRow.Get(entityIndex)
	return ok
}

// GetRow returns the row for entityIndex, or -1 if absent. Absence is a
// normal result; GetRow never raises.
func (a *Archetype) GetRow(entityIndex int) int {
	row, ok := a.indexToRow.Get(entityIndex)
	if !ok {
		return emptyRow
	}
	return row
}

// EntityCount returns the number of live rows.
func (a *Archetype) EntityCount() int { return a.length }

// EntityList returns a stable view of rows [0, EntityCount()). The view is
// memoized and invalidated by the next membership mutation.
func (a *Archetype) EntityList() []EntityID {
	if a.entityListDirty {
		a.entityListCache = append(a.entityListCache[:0], a.entityIDs.View()...)
		a.entityListDirty = false
	}
	return a.entityListCache
}

// GetColumn returns the column backing component/field, valid until the
// next growth of this archetype. Returns (nil, nil) for a tag component,
// since it legitimately owns no column data.
func (a *Archetype) GetColumn(component ComponentID, field string) (Column, error) {
	group, ok := a.groups[component]
	if !ok {
		if _, present := a.schemas[component]; present {
			return nil, nil
		}
		return nil, UnknownComponentError{Archetype: a.id, Component: component}
	}
	idx, ok := group.schema.fieldIndex(field)
	if !ok {
		return nil, UnknownFieldError{Component: component, Field: field}
	}
	return group.columns[idx], nil
}

// WriteFields writes values[name] into the corresponding column at row for
// every field of component's layout present in values. No-op for tag
// components.
func (a *Archetype) WriteFields(row int, component ComponentID, values map[string]float64) error {
	group, ok := a.groups[component]
	if !ok {
		if _, present := a.schemas[component]; present {
			return nil
		}
		return UnknownComponentError{Archetype: a.id, Component: component}
	}
	for i, f := range group.schema.Fields {
		v, ok := values[f.Name]
		if !ok {
			continue
		}
		if err := group.columns[i].SetValueAt(row, v); err != nil {
			return err
		}
	}
	return nil
}

// ReadField reads one field's value at row. Tag components return NaN with
// a nil error, since tag components are legitimately data-less.
func (a *Archetype) ReadField(row int, component ComponentID, field string) (float64, error) {
	group, ok := a.groups[component]
	if !ok {
		if _, present := a.schemas[component]; present {
			return nan(), nil
		}
		return 0, UnknownComponentError{Archetype: a.id, Component: component}
	}
	idx, ok := group.schema.fieldIndex(field)
	if !ok {
		return 0, UnknownFieldError{Component: component, Field: field}
	}
	return group.columns[idx].ValueAt(row), nil
}

// ReadGroup reads every field of component at row into a name->value map.
// Returns an empty map (not an error) for tag components.
func (a *Archetype) ReadGroup(row int, component ComponentID) (map[string]float64, error) {
	group, ok := a.groups[component]
	if !ok {
		if _, present := a.schemas[component]; present {
			return map[string]float64{}, nil
		}
		return nil, UnknownComponentError{Archetype: a.id, Component: component}
	}
	out := make(map[string]float64, len(group.schema.Fields))
	for i, f := range group.schema.Fields {
		out[f.Name] = group.columns[i].ValueAt(row)
	}
	return out, nil
}

// CopyRow copies component's field values from srcRow to dstRow within
// this archetype.
func (a *Archetype) CopyRow(component ComponentID, dstRow, srcRow int) error {
	group, ok := a.groups[component]
	if !ok {
		if _, present := a.schemas[component]; present {
			return nil
		}
		return UnknownComponentError{Archetype: a.id, Component: component}
	}
	for _, col := range group.columns {
		col.CopyRow(dstRow, srcRow)
	}
	return nil
}

// CopySharedFrom copies, for every component present in both archetypes,
// every field from source's srcRow into this archetype's dstRow.
// Components present only in source or only in this archetype are left
// untouched.
func (a *Archetype) CopySharedFrom(source *Archetype, srcRow, dstRow int) {
	for cid, dstGroup := range a.groups {
		srcGroup, ok := source.groups[cid]
		if !ok {
			continue
		}
		for i := range dstGroup.columns {
			srcVal := srcGroup.columns[i].ValueAt(srcRow)
			_ = dstGroup.columns[i].SetValueAt(dstRow, srcVal)
		}
	}
}

// AddEntity adds a new row for entity at entityIndex: grows dense storage
// as needed, writes the handle, records index_to_row, increments length,
// and invalidates the cached entity-list view. Returns the new row.
func (a *Archetype) AddEntity(entity EntityID, entityIndex int) int {
	row := a.entityIDs.Push(entity)
	for _, g := range a.groups {
		for _, col := range g.columns {
			col.GrowZeroes(1)
		}
	}
	a.indexToRow.Set(entityIndex, row)
	a.length++
	a.entityListDirty = true
	return row
}

// RemoveEntity removes entityIndex's row via swap-and-pop across entity_ids
// and every column of every column group, keeping them synchronized.
// Returns the entity index that was swapped into the vacated row, or -1 if
// the removed row was already the last row (no swap occurred).
// Precondition: entityIndex must currently have a row in this archetype.
func (a *Archetype) RemoveEntity(entityIndex int) (int, error) {
	row, ok := a.indexToRow.Get(entityIndex)
	if !ok {
		err := PreconditionViolationError{Op: "RemoveEntity", Message: "entity not present in archetype"}
		debugAssert(false, err)
		return emptyRow, err
	}

	lastRow := a.length - 1
	swappedEntityIndex := emptyRow
	if row != lastRow {
		swappedEntityIndex = a.entityIDs.Get(lastRow).Index()
	}

	a.indexToRow.Delete(entityIndex)
	a.entityIDs.SwapRemove(row)
	for _, g := range a.groups {
		for _, col := range g.columns {
			col.SwapRemoveRow(row)
		}
	}
	a.length--

	if swappedEntityIndex != emptyRow {
		a.indexToRow.Set(swappedEntityIndex, row)
	}
	a.entityListDirty = true
	return swappedEntityIndex, nil
}

func (a *Archetype) edgeAdd(c ComponentID) (ArchetypeID, bool) {
	e, ok := a.edges[c]
	if !ok || !e.hasAdd {
		return 0, false
	}
	return e.add, true
}

func (a *Archetype) edgeRemove(c ComponentID) (ArchetypeID, bool) {
	e, ok := a.edges[c]
	if !ok || !e.hasRemove {
		return 0, false
	}
	return e.remove, true
}

func (a *Archetype) setEdgeAdd(c ComponentID, target ArchetypeID) {
	e, ok := a.edges[c]
	if !ok {
		e = &edgePair{}
		a.edges[c] = e
	}
	e.add, e.hasAdd = target, true
}

func (a *Archetype) setEdgeRemove(c ComponentID, target ArchetypeID) {
	e, ok := a.edges[c]
	if !ok {
		e = &edgePair{}
		a.edges[c] = e
	}
	e.remove, e.hasRemove = target, true
}

func nan() float64 {
	var zero float64
	return zero / zero
}
