package oecs

import "github.com/TheBitDrifter/bark"

// entityMeta tracks an entity slot's current archetype placement and
// generation, mirroring lazyecs's entityMeta/freeEntityIDs pattern adapted
// to this package's archetype registry.
type entityMeta struct {
	generation uint32
	archetype  ArchetypeID
	present    bool
}

// World is the external collaborator spec.md's core types assume exists one
// layer up: it owns entity-ID allocation and generation, the component
// schema registry, and the lock/queue that defers structural mutation
// raised during Cursor iteration. It is not itself part of the core's
// invariants, but every core operation is reachable through it.
type World struct {
	registry *ArchetypeRegistry
	schemas  map[ComponentID]ComponentSchema

	meta     []entityMeta
	freeList []int

	lockCount int
	queue     []worldOperation
}

// NewWorld constructs an empty World with its empty archetype already
// created.
func NewWorld() *World {
	return &World{
		registry: NewArchetypeRegistry(),
		schemas:  make(map[ComponentID]ComponentSchema),
	}
}

// Registry exposes the underlying archetype registry for callers that need
// direct access to GetMatching/RegisterQuery.
func (w *World) Registry() *ArchetypeRegistry { return w.registry }

// RegisterComponent records a component's field layout. Re-registering the
// same ID overwrites its schema; archetypes already built against the old
// schema are unaffected.
func (w *World) RegisterComponent(schema ComponentSchema) {
	w.schemas[schema.ID] = schema
}

// Locked reports whether structural mutation is currently deferred.
func (w *World) Locked() bool { return w.lockCount > 0 }

// Lock increments the lock count, deferring Spawn/Despawn/AddComponent/
// RemoveComponent calls routed through the Enqueue* methods until the
// matching Unlock drops the count back to zero.
func (w *World) Lock() { w.lockCount++ }

// Unlock decrements the lock count and, once it reaches zero, applies every
// queued operation in order. A queued operation's own error is fatal: it
// indicates a broken invariant (e.g. an entity handle that went stale
// between enqueue and apply), not a recoverable condition, so Unlock panics the same way the
// teacher storage's RemoveLock does.
func (w *World) Unlock() {
	if w.lockCount > 0 {
		w.lockCount--
	}
	if w.lockCount > 0 {
		return
	}
	pending := w.queue
	w.queue = nil
	for _, op := range pending {
		if err := op.apply(w); err != nil {
			panic(bark.AddTrace(err))
		}
	}
}

func (w *World) allocIndex() int {
	if n := len(w.freeList); n > 0 {
		idx := w.freeList[n-1]
		w.freeList = w.freeList[:n-1]
		return idx
	}
	idx := len(w.meta)
	w.meta = append(w.meta, entityMeta{})
	return idx
}

func (w *World) validate(id EntityID) bool {
	idx := id.Index()
	if idx < 0 || idx >= len(w.meta) {
		return false
	}
	m := w.meta[idx]
	return m.present && m.generation == id.Generation()
}

func (w *World) schemasFor(components []ComponentID) (map[ComponentID]ComponentSchema, error) {
	out := make(map[ComponentID]ComponentSchema, len(components))
	for _, c := range components {
		schema, ok := w.schemas[c]
		if !ok {
			return nil, UnknownComponentError{Component: c}
		}
		out[c] = schema
	}
	return out, nil
}

// Spawn creates a new entity with the given component signature in the
// matching archetype (created on demand). Returns LockedStorageError if the
// world is currently locked; use EnqueueSpawn to defer instead.
func (w *World) Spawn(components ...ComponentID) (EntityID, error) {
	if w.Locked() {
		return 0, LockedStorageError{}
	}
	return w.spawnNow(components)
}

func (w *World) spawnNow(components []ComponentID) (EntityID, error) {
	schemas, err := w.schemasFor(components)
	if err != nil {
		return 0, err
	}
	archID, err := w.registry.GetOrCreate(components, schemas)
	if err != nil {
		return 0, err
	}
	arche, err := w.registry.Archetype(archID)
	if err != nil {
		return 0, err
	}

	index := w.allocIndex()
	gen := w.meta[index].generation
	id := NewEntityID(index, gen)
	arche.AddEntity(id, index)
	w.meta[index] = entityMeta{generation: gen, archetype: archID, present: true}
	return id, nil
}

// EnqueueSpawn queues entity creation if the world is locked, or spawns
// immediately otherwise. The newly assigned EntityID is unobservable to the
// caller when deferred, matching the teacher's EnqueueNewEntities contract.
func (w *World) EnqueueSpawn(components ...ComponentID) error {
	if !w.Locked() {
		_, err := w.spawnNow(components)
		return err
	}
	w.queue = append(w.queue, spawnOperation{components: components})
	return nil
}

// Despawn removes entity from its archetype and frees its index for reuse
// under a bumped generation. Returns LockedStorageError if the world is
// locked.
func (w *World) Despawn(id EntityID) error {
	if w.Locked() {
		return LockedStorageError{}
	}
	return w.despawnNow(id)
}

func (w *World) despawnNow(id EntityID) error {
	if !w.validate(id) {
		return nil // already gone; despawning a stale handle is a no-op
	}
	index := id.Index()
	meta := &w.meta[index]
	arche, err := w.registry.Archetype(meta.archetype)
	if err != nil {
		return err
	}
	if _, err := arche.RemoveEntity(index); err != nil {
		return err
	}
	meta.present = false
	meta.generation++
	w.freeList = append(w.freeList, index)
	return nil
}

// EnqueueDespawn queues despawn if the world is locked, or despawns
// immediately otherwise.
func (w *World) EnqueueDespawn(id EntityID) error {
	if !w.Locked() {
		return w.despawnNow(id)
	}
	w.queue = append(w.queue, despawnOperation{id: id})
	return nil
}

// AddComponent transitions entity into the archetype reached by adding
// component to its current signature, via the registry's cached add edge.
// If the entity already carries the component, its field values are simply
// overwritten in place. Per Scenario S5, the row is added to the target
// archetype and shared fields are copied from the source row before the
// source row is removed, since removal's swap-and-pop would otherwise
// destroy the source row before it could be copied.
func (w *World) AddComponent(id EntityID, component ComponentID, values map[string]float64) error {
	if w.Locked() {
		return LockedStorageError{}
	}
	return w.addComponentNow(id, component, values)
}

func (w *World) addComponentNow(id EntityID, component ComponentID, values map[string]float64) error {
	if !w.validate(id) {
		return PreconditionViolationError{Op: "AddComponent", Message: "entity handle is stale or unknown"}
	}
	schema, ok := w.schemas[component]
	if !ok {
		return UnknownComponentError{Component: component}
	}

	index := id.Index()
	meta := &w.meta[index]
	source, err := w.registry.Archetype(meta.archetype)
	if err != nil {
		return err
	}

	if source.HasComponent(component) {
		row := source.GetRow(index)
		return source.WriteFields(row, component, values)
	}

	targetID, err := w.registry.ResolveAdd(meta.archetype, component, schema)
	if err != nil {
		return err
	}
	target, err := w.registry.Archetype(targetID)
	if err != nil {
		return err
	}

	srcRow := source.GetRow(index)
	dstRow := target.AddEntity(id, index)
	target.CopySharedFrom(source, srcRow, dstRow)
	if values != nil {
		if err := target.WriteFields(dstRow, component, values); err != nil {
			return err
		}
	}
	if _, err := source.RemoveEntity(index); err != nil {
		return err
	}
	meta.archetype = targetID
	return nil
}

// EnqueueAddComponent queues AddComponent if the world is locked, or applies
// it immediately otherwise.
func (w *World) EnqueueAddComponent(id EntityID, component ComponentID, values map[string]float64) error {
	if !w.Locked() {
		return w.addComponentNow(id, component, values)
	}
	w.queue = append(w.queue, addComponentOperation{id: id, component: component, values: values})
	return nil
}

// RemoveComponent transitions entity into the archetype reached by removing
// component from its current signature. A no-op if the entity doesn't
// carry the component.
func (w *World) RemoveComponent(id EntityID, component ComponentID) error {
	if w.Locked() {
		return LockedStorageError{}
	}
	return w.removeComponentNow(id, component)
}

func (w *World) removeComponentNow(id EntityID, component ComponentID) error {
	if !w.validate(id) {
		return PreconditionViolationError{Op: "RemoveComponent", Message: "entity handle is stale or unknown"}
	}
	index := id.Index()
	meta := &w.meta[index]
	source, err := w.registry.Archetype(meta.archetype)
	if err != nil {
		return err
	}
	if !source.HasComponent(component) {
		return nil
	}

	targetID, err := w.registry.ResolveRemove(meta.archetype, component)
	if err != nil {
		return err
	}
	target, err := w.registry.Archetype(targetID)
	if err != nil {
		return err
	}

	srcRow := source.GetRow(index)
	dstRow := target.AddEntity(id, index)
	target.CopySharedFrom(source, srcRow, dstRow)
	if _, err := source.RemoveEntity(index); err != nil {
		return err
	}
	meta.archetype = targetID
	return nil
}

// EnqueueRemoveComponent queues RemoveComponent if the world is locked, or
// applies it immediately otherwise.
func (w *World) EnqueueRemoveComponent(id EntityID, component ComponentID) error {
	if !w.Locked() {
		return w.removeComponentNow(id, component)
	}
	w.queue = append(w.queue, removeComponentOperation{id: id, component: component})
	return nil
}

// Alive reports whether id still refers to a live entity at its recorded
// generation.
func (w *World) Alive(id EntityID) bool { return w.validate(id) }

// ArchetypeOf returns the archetype currently holding entity.
func (w *World) ArchetypeOf(id EntityID) (*Archetype, error) {
	if !w.validate(id) {
		return nil, PreconditionViolationError{Op: "ArchetypeOf", Message: "entity handle is stale or unknown"}
	}
	return w.registry.Archetype(w.meta[id.Index()].archetype)
}
