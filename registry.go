package oecs

// ArchetypeRegistry owns archetype deduplication by signature, a
// component-to-archetypes inverted index for query acceleration, and a
// lazily populated graph of add/remove transition edges (spec.md §4.5).
// Archetypes are created on demand and never destroyed, so cached edges and
// registered query results remain valid references for the registry's
// lifetime.
type ArchetypeRegistry struct {
	archetypes       []*Archetype
	archetypeMap     map[uint64][]ArchetypeID // hash(mask) -> dedup bucket
	componentIndex   []*SparseSet             // ComponentID -> set of archetype IDs
	emptyArchetypeID ArchetypeID
	registeredQueries []*RegisteredQuery
}

// RegisteredQuery is a live reference to a result list, populated at
// registration time and automatically extended whenever a newly created
// archetype matches its mask (spec.md §4.5 register_query).
type RegisteredQuery struct {
	mask   BitSet
	Result []*Archetype
}

// NewArchetypeRegistry constructs a registry with its empty archetype
// already created, per spec.md §3.
func NewArchetypeRegistry() *ArchetypeRegistry {
	r := &ArchetypeRegistry{
		archetypeMap: make(map[uint64][]ArchetypeID),
	}
	id, err := r.GetOrCreateFromMask(BitSet{}, nil)
	if err != nil {
		panic(err) // construction-time; cannot fail
	}
	r.emptyArchetypeID = id
	return r
}

// EmptyArchetypeID returns the archetype with no components.
func (r *ArchetypeRegistry) EmptyArchetypeID() ArchetypeID { return r.emptyArchetypeID }

// Archetype returns the archetype for id, or UnknownArchetypeError if id is
// out of range.
func (r *ArchetypeRegistry) Archetype(id ArchetypeID) (*Archetype, error) {
	if int(id) < 0 || int(id) >= len(r.archetypes) {
		err := UnknownArchetypeError{ID: id}
		debugAssert(false, err)
		return nil, err
	}
	return r.archetypes[id], nil
}

// Archetypes returns every archetype in the registry. Order is stable
// (creation order) but otherwise unspecified to callers per spec.md §4.5.
func (r *ArchetypeRegistry) Archetypes() []*Archetype {
	return r.archetypes
}

func (r *ArchetypeRegistry) ensureComponentIndex(componentID int) {
	for len(r.componentIndex) <= componentID {
		r.componentIndex = append(r.componentIndex, &SparseSet{})
	}
}

// GetOrCreate hashes the signature built from ids and component schemas,
// deduplicating by mask regardless of signature order.
func (r *ArchetypeRegistry) GetOrCreate(ids []ComponentID, schemas map[ComponentID]ComponentSchema) (ArchetypeID, error) {
	return r.GetOrCreateFromMask(MaskOf(ids...), schemas)
}

// GetOrCreateFromMask probes the mask's hash bucket for an archetype whose
// mask equals the incoming one; if none is found, a new archetype is
// allocated, appended, indexed, and every registered query whose mask is a
// subset of the new archetype's mask is extended with it.
func (r *ArchetypeRegistry) GetOrCreateFromMask(mask BitSet, schemas map[ComponentID]ComponentSchema) (ArchetypeID, error) {
	h := mask.Hash()
	for _, id := range r.archetypeMap[h] {
		if r.archetypes[id].mask.Equals(mask) {
			return id, nil
		}
	}

	id := ArchetypeID(len(r.archetypes))
	frozen := mask.Copy()
	arche := newArchetype(id, frozen, schemas)
	r.archetypes = append(r.archetypes, arche)
	r.archetypeMap[h] = append(r.archetypeMap[h], id)

	frozen.ForEach(func(bit int) {
		r.ensureComponentIndex(bit)
		r.componentIndex[bit].Add(int(id))
	})

	for _, q := range r.registeredQueries {
		if arche.mask.Contains(q.mask) {
			q.Result = append(q.Result, arche)
		}
	}

	return id, nil
}

// ResolveAdd returns the archetype reached by adding component to
// sourceID's signature. If source already contains the component it is
// returned unchanged. Otherwise the cached add edge is used if present;
// else a new archetype is created for source.mask ∪ {component} and both
// directions of the edge are cached.
func (r *ArchetypeRegistry) ResolveAdd(sourceID ArchetypeID, component ComponentID, schema ComponentSchema) (ArchetypeID, error) {
	source, err := r.Archetype(sourceID)
	if err != nil {
		return 0, err
	}
	if source.HasComponent(component) {
		return sourceID, nil
	}
	if target, ok := source.edgeAdd(component); ok {
		return target, nil
	}

	targetMask := source.mask.CopyWithSet(int(component))
	targetSchemas := make(map[ComponentID]ComponentSchema, len(source.schemas)+1)
	for cid, s := range source.schemas {
		targetSchemas[cid] = s
	}
	targetSchemas[component] = schema

	targetID, err := r.GetOrCreateFromMask(targetMask, targetSchemas)
	if err != nil {
		return 0, err
	}
	target, _ := r.Archetype(targetID)

	source.setEdgeAdd(component, targetID)
	target.setEdgeRemove(component, sourceID)
	return targetID, nil
}

// ResolveRemove returns the archetype reached by removing component from
// sourceID's signature, symmetric to ResolveAdd.
func (r *ArchetypeRegistry) ResolveRemove(sourceID ArchetypeID, component ComponentID) (ArchetypeID, error) {
	source, err := r.Archetype(sourceID)
	if err != nil {
		return 0, err
	}
	if !source.HasComponent(component) {
		return sourceID, nil
	}
	if target, ok := source.edgeRemove(component); ok {
		return target, nil
	}

	targetMask := source.mask.CopyWithClear(int(component))
	targetSchemas := make(map[ComponentID]ComponentSchema, len(source.schemas))
	for cid, s := range source.schemas {
		if cid == component {
			continue
		}
		targetSchemas[cid] = s
	}

	targetID, err := r.GetOrCreateFromMask(targetMask, targetSchemas)
	if err != nil {
		return 0, err
	}
	target, _ := r.Archetype(targetID)

	source.setEdgeRemove(component, targetID)
	target.setEdgeAdd(component, sourceID)
	return targetID, nil
}

// GetMatching returns every archetype whose mask is a superset of required.
// An empty required mask matches every archetype (including the empty
// archetype). If required names a component with no matching archetypes at
// all, no archetype could possibly match and the result is empty.
func (r *ArchetypeRegistry) GetMatching(required BitSet) []*Archetype {
	if required.IsEmpty() {
		out := make([]*Archetype, len(r.archetypes))
		copy(out, r.archetypes)
		return out
	}

	var smallest *SparseSet
	required.ForEach(func(bit int) {
		if smallest != nil && smallest.Len() == 0 {
			return
		}
		if bit >= len(r.componentIndex) {
			smallest = &SparseSet{}
			return
		}
		set := r.componentIndex[bit]
		if set.Len() == 0 {
			smallest = set
			return
		}
		if smallest == nil || set.Len() < smallest.Len() {
			smallest = set
		}
	})
	if smallest == nil || smallest.Len() == 0 {
		return nil
	}

	var out []*Archetype
	smallest.ForEach(func(id int) {
		arche := r.archetypes[id]
		if arche.Matches(required) {
			out = append(out, arche)
		}
	})
	return out
}

// RegisterQuery returns a live result list populated by GetMatching(mask)
// at registration time, thereafter automatically extended whenever a newly
// created archetype matches. mask is copied so later mutation of the
// caller's BitSet cannot corrupt the registration.
func (r *ArchetypeRegistry) RegisterQuery(mask BitSet) *RegisteredQuery {
	q := &RegisteredQuery{
		mask:   mask.Copy(),
		Result: r.GetMatching(mask),
	}
	r.registeredQueries = append(r.registeredQueries, q)
	return q
}

// GetComponentArchetypeCount returns the number of archetypes whose mask
// contains component, or 0 if none do.
func (r *ArchetypeRegistry) GetComponentArchetypeCount(component ComponentID) int {
	if int(component) >= len(r.componentIndex) {
		return 0
	}
	return r.componentIndex[component].Len()
}
