package core

import "fmt"

// Coordinate is a cell position: X is the column, Y the row.
type Coordinate struct {
	X, Y int
}

// NewCoordinate creates a new coordinate
func NewCoordinate(x, y int) Coordinate {
	return Coordinate{X: x, Y: y}
}

// FromIndex converts a row-major board index into a coordinate.
func FromIndex(idx, width int) Coordinate {
	return Coordinate{X: idx % width, Y: idx / width}
}

// IsValid checks if the coordinate is within the given bounds
func (c Coordinate) IsValid(width, height int) bool {
	return c.X >= 0 && c.X < width && c.Y >= 0 && c.Y < height
}

// ToIndex converts the coordinate to a row-major index
func (c Coordinate) ToIndex(width int) int {
	return c.Y*width + c.X
}

// DistanceTo calculates the Manhattan distance to another coordinate
func (c Coordinate) DistanceTo(other Coordinate) int {
	dx := c.X - other.X
	dy := c.Y - other.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// IsAdjacentTo reports whether other is one orthogonal step away
func (c Coordinate) IsAdjacentTo(other Coordinate) bool {
	return c.DistanceTo(other) == 1
}

// Step returns the coordinate one cell away in direction d.
func (c Coordinate) Step(d Direction) Coordinate {
	off := directionOffsets[d]
	return Coordinate{X: c.X + off.X, Y: c.Y + off.Y}
}

// Neighbors returns the four orthogonal neighbors in N, E, S, W order,
// including ones that fall off the board.
func (c Coordinate) Neighbors() []Coordinate {
	out := make([]Coordinate, 0, NumDirections)
	for d := North; d <= West; d++ {
		out = append(out, c.Step(d))
	}
	return out
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Direction is one of the four cardinal directions.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

const NumDirections = 4

var directionOffsets = [NumDirections]Coordinate{
	North: {X: 0, Y: -1},
	East:  {X: 1, Y: 0},
	South: {X: 0, Y: 1},
	West:  {X: -1, Y: 0},
}

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	}
	return "none"
}

// DirectionTo returns the direction from c to an adjacent coordinate, or
// -1 when the two are not adjacent.
func (c Coordinate) DirectionTo(other Coordinate) Direction {
	if !c.IsAdjacentTo(other) {
		return -1
	}
	switch {
	case other.Y < c.Y:
		return North
	case other.X > c.X:
		return East
	case other.Y > c.Y:
		return South
	default:
		return West
	}
}
