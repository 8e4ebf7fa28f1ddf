package core

// Terrain is the static kind of a cell. The numeric values are stable and
// shared with the replay encoding.
type Terrain int8

const (
	Plain Terrain = iota
	Mountain
	City
	General
	Desert
	Swamp
	Lookout
	Observatory
)

const NeutralID = -1

var terrainNames = [...]string{
	Plain:       "plain",
	Mountain:    "mountain",
	City:        "city",
	General:     "general",
	Desert:      "desert",
	Swamp:       "swamp",
	Lookout:     "lookout",
	Observatory: "observatory",
}

func (t Terrain) String() string {
	if t.Valid() {
		return terrainNames[t]
	}
	return "unknown"
}

// Valid reports whether t is one of the eight known terrain kinds.
func (t Terrain) Valid() bool { return t >= Plain && t <= Observatory }

// Tile represents a single cell on the map.
// Owner: -1 means neutral; 0..N-1 are player IDs.
// Lit tiles are visible to every player regardless of ownership.
type Tile struct {
	Owner int
	Army  int
	Type  Terrain
	Lit   bool
}

func (t *Tile) IsNeutral() bool  { return t.Owner == NeutralID }
func (t *Tile) IsCity() bool     { return t.Type == City }
func (t *Tile) IsGeneral() bool  { return t.Type == General }
func (t *Tile) IsMountain() bool { return t.Type == Mountain }
func (t *Tile) IsSwamp() bool    { return t.Type == Swamp }
func (t *Tile) IsDesert() bool   { return t.Type == Desert }

// Board is a row-major grid of tiles
type Board struct {
	W, H int
	T    []Tile // length = W*H (row-major)
}

// NewBoard returns a board of plain, neutral, empty tiles.
func NewBoard(w, h int) *Board {
	b := &Board{W: w, H: h, T: make([]Tile, w*h)}
	for i := range b.T {
		b.T[i].Owner = NeutralID
	}
	return b
}

func (b *Board) Idx(x, y int) int      { return y*b.W + x }
func (b *Board) XY(idx int) (int, int) { return idx % b.W, idx / b.W }
// Coord converts a tile index to a Coordinate
func (b *Board) Coord(idx int) Coordinate {
	return FromIndex(idx, b.W)
}

// InBounds checks if coordinates are within board boundaries
func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && x < b.W && y >= 0 && y < b.H
}

// GetTile safely returns a tile pointer if coordinates are valid, nil otherwise
func (b *Board) GetTile(x, y int) *Tile {
	if !b.InBounds(x, y) {
		return nil
	}
	return &b.T[b.Idx(x, y)]
}

func (b *Board) Distance(x1, y1, x2, y2 int) int {
	return Coordinate{X: x1, Y: y1}.DistanceTo(Coordinate{X: x2, Y: y2})
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	c := &Board{W: b.W, H: b.H, T: make([]Tile, len(b.T))}
	copy(c.T, b.T)
	return c
}

// Equal reports whether two boards have the same dimensions and tiles.
func (b *Board) Equal(o *Board) bool {
	if b == nil || o == nil {
		return b == o
	}
	if b.W != o.W || b.H != o.H || len(b.T) != len(o.T) {
		return false
	}
	for i := range b.T {
		if b.T[i] != o.T[i] {
			return false
		}
	}
	return true
}

// CountType counts the tiles of terrain t
func (b *Board) CountType(t Terrain) int {
	n := 0
	for i := range b.T {
		if b.T[i].Type == t {
			n++
		}
	}
	return n
}

// GeneralOf returns the index of the General owned by player, or -1.
func (b *Board) GeneralOf(player int) int {
	for i := range b.T {
		if b.T[i].Type == General && b.T[i].Owner == player {
			return i
		}
	}
	return -1
}

// PlayerTotals returns the army and land held by player.
func (b *Board) PlayerTotals(player int) (army, land int) {
	for i := range b.T {
		if b.T[i].Owner == player {
			army += b.T[i].Army
			land++
		}
	}
	return army, land
}
