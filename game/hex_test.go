package game

import "testing"

func TestNeighbor_Inverses(t *testing.T) {
	pairs := [][2]Direction{{North, South}, {NorthEast, SouthWest}, {NorthWest, SouthEast}}
	for x := -6; x <= 6; x++ {
		for y := -6; y <= 6; y++ {
			c := Coordinate{X: x, Y: y}
			for _, p := range pairs {
				if got := Neighbor(Neighbor(c, p[0]), p[1]); got != c {
					t.Fatalf("Neighbor(Neighbor(%s, %s), %s) = %s", c, p[0], p[1], got)
				}
				if got := Neighbor(Neighbor(c, p[1]), p[0]); got != c {
					t.Fatalf("Neighbor(Neighbor(%s, %s), %s) = %s", c, p[1], p[0], got)
				}
			}
		}
	}
}

func TestOpposite(t *testing.T) {
	for _, d := range Directions {
		if Opposite(Opposite(d)) != d {
			t.Errorf("Opposite is not an involution for %s", d)
		}
		c := Coordinate{X: 3, Y: -1}
		if Neighbor(Neighbor(c, d), Opposite(d)) != c {
			t.Errorf("Opposite(%s) does not lead back", d)
		}
	}
}

func TestSectorFor(t *testing.T) {
	tests := []struct {
		c    Coordinate
		want Sector
	}{
		{Coordinate{X: 1, Y: 1}, SectorInner},
		{Coordinate{X: -1, Y: 1}, SectorInner},
		{Coordinate{X: 1, Y: -1}, SectorInner},
		{Coordinate{X: 2, Y: 2}, SectorMiddle},
		{Coordinate{X: -2, Y: -2}, SectorMiddle},
		{Coordinate{X: 0, Y: 2}, SectorOuter},
		{Coordinate{X: 3, Y: 1}, SectorOuter},
		{Coordinate{X: 0, Y: 0}, SectorOuter},
	}
	for _, tt := range tests {
		if got := SectorFor(tt.c); got != tt.want {
			t.Errorf("SectorFor(%s) = %s, want %s", tt.c, got, tt.want)
		}
	}
}

func TestDefaultBorders(t *testing.T) {
	borders := DefaultBorders()
	if len(borders) != 6 {
		t.Fatalf("Expected 6 borders, got %d", len(borders))
	}
	for i, b := range borders {
		if b.Direction != Directions[i] || !b.Wormhole || b.Neighbor != nil {
			t.Errorf("unexpected default border %+v", b)
		}
	}
}
