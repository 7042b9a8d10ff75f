package game

// Direction names one of the six edges of a hex tile.
type Direction string

const (
	North     Direction = "north"
	NorthEast Direction = "north-east"
	NorthWest Direction = "north-west"
	South     Direction = "south"
	SouthEast Direction = "south-east"
	SouthWest Direction = "south-west"
)

// Directions is the fixed border order of every placed tile.
var Directions = []Direction{North, NorthEast, NorthWest, South, SouthEast, SouthWest}

var deltas = map[Direction]Coordinate{
	North:     {X: 0, Y: 2},
	South:     {X: 0, Y: -2},
	NorthEast: {X: 1, Y: 1},
	SouthWest: {X: -1, Y: -1},
	NorthWest: {X: -1, Y: 1},
	SouthEast: {X: 1, Y: -1},
}

var opposites = map[Direction]Direction{
	North:     South,
	South:     North,
	NorthEast: SouthWest,
	SouthWest: NorthEast,
	NorthWest: SouthEast,
	SouthEast: NorthWest,
}

// Neighbor returns the coordinate across the given border of c.
func Neighbor(c Coordinate, d Direction) Coordinate {
	delta := deltas[d]
	return Coordinate{X: c.X + delta.X, Y: c.Y + delta.Y}
}

// Opposite returns the border that faces d from the neighboring tile.
func Opposite(d Direction) Direction {
	return opposites[d]
}

// SectorFor classifies a coordinate into a draw pool by its offset
// magnitude. This only matches true ring distance near the center; hexes
// such as (0,2) or (3,1) fall through to outer.
func SectorFor(c Coordinate) Sector {
	x, y := abs(c.X), abs(c.Y)
	switch {
	case x == 1 && y == 1:
		return SectorInner
	case x == 2 && y == 2:
		return SectorMiddle
	default:
		return SectorOuter
	}
}

// DefaultBorders returns six unresolved wormhole borders.
func DefaultBorders() []Border {
	borders := make([]Border, len(Directions))
	for i, d := range Directions {
		borders[i] = Border{Direction: d, Wormhole: true}
	}
	return borders
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
