package world

// The world graph is an immutable arena: regions, locations and entities are
// stored in flat slices addressed by dense IDs assigned in document order.
// Nothing here mutates after Compile; per-attempt fill state lives in an
// Assignment table on the side.

type RegionID int

type LocationID int

type EntityID int

// Door is a directed, conditionally-traversable edge between regions. It is
// evaluated against the inventory only, never per-location state.
type Door struct {
	To       RegionID
	Requires TokenSet
}

// Region is a traversal node in the world graph.
type Region struct {
	ID        RegionID
	Name      string
	Doors     []Door
	Locations []LocationID
}

// Location is a slot within a region that holds exactly one entity.
type Location struct {
	ID       LocationID
	Name     string
	Region   RegionID
	Category Category
	Requires TokenSet // gates use of the slot once its region is reached
	Hidden   bool     // visibility hint for the output stage; not consulted by the solver
	Physical bool     // physically represented in the world; steers fallback routing
	Vanilla  EntityID // default occupant; also this slot's contribution to the fill pool
}

// Rule is one progression grant: holding the entity yields Grants once
// Requires is covered by the inventory.
type Rule struct {
	Grants   Token
	Requires TokenSet
}

// Entity is a placeable prize: an item, weapon, armor piece or NPC.
type Entity struct {
	ID          EntityID
	Name        string
	Description string
	Category    Category
	Rules       []Rule
}

// Assignment maps each location to its current occupant. The generator
// rewrites the whole table on every attempt; the arena itself never changes.
type Assignment map[LocationID]EntityID

// World is the compiled, immutable model: topology, entity catalog, token
// registry and the category policy the fill engine follows.
type World struct {
	Name      string
	Start     RegionID
	Regions   []Region
	Locations []Location
	Entities  []Entity
	Tokens    *TokenRegistry

	// Priority orders buckets most-constrained-first; Terminal marks the
	// buckets a fallback chain may end at.
	Priority  []Category
	Fallbacks []FallbackRule
	Terminal  map[Category]bool
}

// VanillaAssignment returns the default placement: every location holding the
// entity the document declared for it.
func (w *World) VanillaAssignment() Assignment {
	a := make(Assignment, len(w.Locations))
	for _, loc := range w.Locations {
		a[loc.ID] = loc.Vanilla
	}
	return a
}

// Location returns the location record for id.
func (w *World) Location(id LocationID) *Location {
	return &w.Locations[id]
}

// Entity returns the entity record for id.
func (w *World) Entity(id EntityID) *Entity {
	return &w.Entities[id]
}

// Region returns the region record for id.
func (w *World) Region(id RegionID) *Region {
	return &w.Regions[id]
}
