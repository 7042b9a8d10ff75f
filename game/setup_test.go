package game

import (
	"errors"
	"fmt"
	"testing"

	"github.com/wfunc/galaxyserver/catalog"
)

// fixedRand returns its values in order, wrapping around, each reduced
// modulo n.
type fixedRand struct {
	values []int
	next   int
}

func (r *fixedRand) Intn(n int) int {
	if len(r.values) == 0 {
		return 0
	}
	v := r.values[r.next%len(r.values)]
	r.next++
	return v % n
}

func zeroRand() Rand { return &fixedRand{} }

func setupPlayers(n int) []PlayerSetup {
	players := make([]PlayerSetup, n)
	for i := range players {
		players[i] = PlayerSetup{ID: fmt.Sprintf("p%d", i+1)}
	}
	return players
}

func mustSetup(t *testing.T, n int) Game {
	t.Helper()
	g, err := Setup(setupPlayers(n), zeroRand())
	if err != nil {
		t.Fatalf("Setup(%d) failed: %v", n, err)
	}
	return g
}

func TestSetup_AllPlayerCounts(t *testing.T) {
	for n := MinPlayers; n <= MaxPlayers; n++ {
		t.Run(fmt.Sprintf("%d players", n), func(t *testing.T) {
			g := mustSetup(t, n)

			if g.CurrentPlayerIndex != 0 {
				t.Errorf("Expected current player index 0, got %d", g.CurrentPlayerIndex)
			}
			if len(g.Board.Players) != n {
				t.Fatalf("Expected %d players, got %d", n, len(g.Board.Players))
			}
			if got := len(g.Board.TechTray.Tiles); got != n+3 {
				t.Errorf("Expected %d tech tiles, got %d", n+3, got)
			}
			outer, _ := OuterSectorCount(n)
			if got := g.PoolSize(SectorInner); got != 6 {
				t.Errorf("Expected 6 inner tiles, got %d", got)
			}
			if got := g.PoolSize(SectorMiddle); got != 6 {
				t.Errorf("Expected 6 middle tiles, got %d", got)
			}
			if got := g.PoolSize(SectorOuter); got != outer {
				t.Errorf("Expected %d outer tiles, got %d", outer, got)
			}
			wantTiles := 1 + len(guardianPositions[n]) + n
			if got := len(g.Board.Map.Tiles); got != wantTiles {
				t.Errorf("Expected %d placed tiles, got %d", wantTiles, got)
			}
			if len(g.Events) != 1 || g.Events[0].Type() != TypeGameSetup {
				t.Errorf("Expected a single game-setup event, got %v", g.Events)
			}

			seen := make(map[Coordinate]bool)
			for _, tile := range g.Board.Map.Tiles {
				if seen[tile.Coordinate] {
					t.Errorf("duplicate tile at %s", tile.Coordinate)
				}
				seen[tile.Coordinate] = true
			}
		})
	}
}

func TestSetup_UnsupportedPlayerCount(t *testing.T) {
	for _, n := range []int{0, 1, 7} {
		_, err := Setup(setupPlayers(n), zeroRand())
		if !errors.Is(err, ErrUnsupportedPlayerCount) {
			t.Errorf("Setup(%d): expected ErrUnsupportedPlayerCount, got %v", n, err)
		}
	}
}

func TestSetup_UnknownSpecies(t *testing.T) {
	players := setupPlayers(2)
	players[1].Species = "no-such-species"
	if _, err := Setup(players, zeroRand()); !errors.Is(err, ErrUnknownSpecies) {
		t.Fatalf("Expected ErrUnknownSpecies, got %v", err)
	}
}

func TestSetup_TwoPlayerBoard(t *testing.T) {
	g := mustSetup(t, 2)

	center, ok := g.TileAt(Coordinate{X: 0, Y: 0})
	if !ok {
		t.Fatal("Expected a center tile at (0,0)")
	}
	if len(center.Objects) != 1 || center.Objects[0].Blueprint.AlienType != catalog.GCDS {
		t.Errorf("Expected the center tile to hold the GCDS, got %+v", center.Objects)
	}
	if center.Influence != nil {
		t.Error("Center tile should not be influenced")
	}

	homes := map[string]Coordinate{"p1": {X: 2, Y: -2}, "p2": {X: -2, Y: 2}}
	for id, c := range homes {
		tile, ok := g.TileAt(c)
		if !ok {
			t.Fatalf("Expected home tile for %s at %s", id, c)
		}
		if tile.Influence == nil || tile.Influence.PlayerID != id {
			t.Errorf("Expected %s to influence %s, got %+v", id, c, tile.Influence)
		}
		if len(tile.Objects) != 1 || tile.Objects[0].PlayerID != id {
			t.Errorf("Expected a ship owned by %s on its home tile, got %+v", id, tile.Objects)
		}
	}

	guardians := 0
	for _, tile := range g.Board.Map.Tiles {
		if tile.Tile.AlienBlueprint != nil && tile.Tile.AlienBlueprint.AlienType == catalog.Guardian {
			guardians++
		}
	}
	if guardians != 4 {
		t.Errorf("Expected 4 guardian tiles, got %d", guardians)
	}
}

func TestSetup_PlayerBoards(t *testing.T) {
	g := mustSetup(t, 3)
	for _, p := range g.Board.Players {
		if p.Species != catalog.DefaultSpecies {
			t.Errorf("Expected default species, got %q", p.Species)
		}
		if len(p.InfluenceTrack) != 13 {
			t.Fatalf("Expected 13 influence slots, got %d", len(p.InfluenceTrack))
		}
		if p.InfluenceTrack[0].Influence != nil || p.InfluenceTrack[1].Influence != nil {
			t.Error("The first two influence slots should start empty")
		}
		if p.InfluenceTrack[2].Influence == nil || p.InfluenceTrack[2].Influence.PlayerID != p.ID {
			t.Error("The third influence slot should hold one of the player's discs")
		}
		if len(p.Storages) != 3 {
			t.Errorf("Expected 3 storages, got %d", len(p.Storages))
		}
		if len(p.Actions) != 6 {
			t.Errorf("Expected 6 actions, got %d", len(p.Actions))
		}
		if len(p.TechTrack.Grid) != 1 || len(p.TechTrack.Military) != 1 {
			t.Errorf("Expected starting tech on grid and military tracks, got %+v", p.TechTrack)
		}
	}
}
