package oecs

// Cursor iterates the entities matching a mask across every archetype that
// currently satisfies it, plus any archetype created later that comes to
// satisfy it (spec.md §4.5 register_query backs this with a live result
// list). It holds World locked for the duration of iteration so that
// structural mutation triggered from inside a loop body cannot shift rows
// out from under the cursor: the Enqueue* variants are deferred until
// unlock, and Spawn/Despawn/AddComponent/RemoveComponent return
// LockedStorageError.
type Cursor struct {
	world *World
	query *RegisteredQuery

	archIndex   int
	row         int
	remaining   int
	initialized bool
}

// NewCursor registers mask against world's registry and returns a cursor
// over the live result set.
func NewCursor(world *World, mask BitSet) *Cursor {
	return &Cursor{
		world: world,
		query: world.registry.RegisterQuery(mask),
	}
}

// Initialize locks the world and positions the cursor just before its
// first matching row; Next moves onto that row. Idempotent: a second call
// before Reset is a no-op.
func (c *Cursor) Initialize() {
	if c.initialized {
		return
	}
	c.world.Lock()
	c.initialized = true
	c.archIndex = 0
	c.row = -1
	c.remaining = 0
	if len(c.query.Result) > 0 {
		c.remaining = c.query.Result[0].EntityCount()
	}
}

// Next advances to the next matching row, skipping empty or exhausted
// archetypes, and reports whether a row is available. Once exhausted it
// calls Reset, releasing the world lock.
func (c *Cursor) Next() bool {
	if !c.initialized {
		c.Initialize()
	}
	for c.archIndex < len(c.query.Result) {
		if c.row+1 < c.remaining {
			c.row++
			return true
		}
		c.archIndex++
		c.row = -1
		if c.archIndex < len(c.query.Result) {
			c.remaining = c.query.Result[c.archIndex].EntityCount()
		}
	}
	c.Reset()
	return false
}

// Reset clears iteration state and releases the world lock. Safe to call
// even if iteration was never started.
func (c *Cursor) Reset() {
	if c.initialized {
		c.world.Unlock()
	}
	c.archIndex = 0
	c.row = -1
	c.remaining = 0
	c.initialized = false
}

// CurrentArchetype returns the archetype holding the row the cursor is
// currently positioned at.
func (c *Cursor) CurrentArchetype() *Archetype {
	return c.query.Result[c.archIndex]
}

// Row returns the current row within CurrentArchetype.
func (c *Cursor) Row() int { return c.row }

// CurrentEntityID returns the entity handle at the cursor's current
// position.
func (c *Cursor) CurrentEntityID() EntityID {
	return c.CurrentArchetype().EntityList()[c.row]
}

// TotalMatched returns the total number of entities across every currently
// matching archetype. Calling it outside active iteration briefly locks and
// unlocks the world.
func (c *Cursor) TotalMatched() int {
	wasInitialized := c.initialized
	if !wasInitialized {
		c.Initialize()
	}
	total := 0
	for _, arche := range c.query.Result {
		total += arche.EntityCount()
	}
	if !wasInitialized {
		c.Reset()
	}
	return total
}
