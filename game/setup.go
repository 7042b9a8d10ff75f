package game

import (
	"fmt"

	"github.com/wfunc/galaxyserver/catalog"
)

const (
	MinPlayers = 2
	MaxPlayers = 6
)

var (
	startNorth     = Coordinate{X: 2, Y: -2}
	startNorthEast = Coordinate{X: 0, Y: 4}
	startNorthWest = Coordinate{X: -2, Y: -2}
	startSouth     = Coordinate{X: -2, Y: 2}
	startSouthWest = Coordinate{X: 0, Y: -4}
	startSouthEast = Coordinate{X: 2, Y: 2}
)

var playerStartPositions = map[int][]Coordinate{
	2: {startNorth, startSouth},
	3: {startNorth, startSouthWest, startSouthEast},
	4: {startNorth, startNorthWest, startSouthEast, startSouth},
	5: {startNorth, startNorthEast, startNorthWest, startSouthEast, startSouthWest},
	6: {startNorth, startNorthWest, startNorthEast, startSouth, startSouthEast, startSouthWest},
}

var guardianPositions = map[int][]Coordinate{
	2: {startNorthWest, startNorthEast, startSouthWest, startSouthEast},
	3: {startNorthEast, startNorthWest, startSouth},
	4: {startNorthEast, startSouthWest},
	5: {startSouth},
	6: {},
}

var playerColors = []int{0xFF0000, 0x00FF00, 0x0000FF, 0xFFFF00, 0xFF00FF, 0x00FFFF}

// Center is the coordinate of the galactic center tile.
var Center = Coordinate{X: 0, Y: 0}

// StartPositions returns the home coordinates for a player count, in seat
// order.
func StartPositions(playerCount int) ([]Coordinate, bool) {
	p, ok := playerStartPositions[playerCount]
	return append([]Coordinate(nil), p...), ok
}

// Setup creates a new game for the given players in seat order.
func Setup(players []PlayerSetup, rng Rand) (Game, error) {
	count := len(players)
	starts, ok := playerStartPositions[count]
	if !ok {
		return Game{}, newError(CodeUnsupportedPlayerCount, "unsupported player count %d", count)
	}

	boards := make([]catalog.SpeciesBoard, count)
	for i, ps := range players {
		species := ps.Species
		if species == "" {
			species = catalog.DefaultSpecies
		}
		board, ok := catalog.Species(species)
		if !ok {
			return Game{}, newError(CodeUnknownSpecies, "unknown species %q", ps.Species)
		}
		boards[i] = board
	}

	pool, err := NewTilePool(count)
	if err != nil {
		return Game{}, err
	}

	built := make([]Player, count)
	for i, ps := range players {
		built[i] = newPlayer(ps.ID, playerColors[i], boards[i])
	}

	tiles := make([]MapTile, 0, 1+len(guardianPositions[count])+count)
	tiles = append(tiles, centerTile())
	for i, c := range guardianPositions[count] {
		tiles = append(tiles, guardianTile(i+1, c))
	}
	for i, p := range built {
		tiles = append(tiles, homeTile(p.ID, i, boards[i], starts[i]))
	}
	for i := range tiles {
		tiles = resolveNeighbors(tiles, i)
	}

	return Game{
		Events: []Event{GameSetup{Players: append([]PlayerSetup(nil), players...)}},
		Board: Board{
			Players:  built,
			TechTray: RefillTechTray(TechTray{}, count, rng),
			Map:      Map{Tiles: tiles},
		},
		Tiles:              pool,
		CurrentPlayerIndex: 0,
	}, nil
}

func newPlayer(id string, color int, board catalog.SpeciesBoard) Player {
	storages := make([]Storage, len(board.Storage))
	for i, s := range board.Storage {
		// Production is derived from the map once production rules exist.
		storages[i] = Storage{Type: s.Type, StorageValue: s.Value}
	}

	actions := make([]PlayerAction, len(board.ActionTrack))
	for i, a := range board.ActionTrack {
		actions[i] = PlayerAction{Type: a.Type, Count: a.Count}
	}

	var tech TechTrack
	for _, key := range board.StartingTech {
		t, ok := catalog.TechTileByKey(key)
		if !ok {
			continue
		}
		switch t.Type {
		case catalog.TechMilitary:
			tech.Military = append(tech.Military, t)
		case catalog.TechGrid:
			tech.Grid = append(tech.Grid, t)
		case catalog.TechNano:
			tech.Nano = append(tech.Nano, t)
		}
	}

	return Player{
		ID:              id,
		Color:           color,
		Species:         board.Species,
		Storages:        storages,
		SpeciesTray:     board.Tray,
		InfluenceTrack:  newInfluenceTrack(id),
		Actions:         actions,
		TechTrack:       tech,
		ColonyShips:     make([]ColonyShip, board.ColonyShips),
		ReputationTrack: board.ReputationTrack,
		Blueprints:      board.Blueprints,
	}
}

func newInfluenceTrack(playerID string) []InfluenceSlot {
	costs, empty := catalog.InfluenceCosts()
	track := make([]InfluenceSlot, len(costs))
	for i, cost := range costs {
		track[i] = InfluenceSlot{MoneyCost: cost}
		if i >= empty {
			track[i].Influence = &Influence{PlayerID: playerID}
		}
	}
	return track
}

func centerTile() MapTile {
	blueprint := catalog.GalacticCenterBlueprint()
	return MapTile{
		Coordinate: Center,
		Borders:    DefaultBorders(),
		Objects:    []TileObject{{Type: ObjectAlien, Blueprint: &blueprint}},
		Tile: TileContent{
			ID:             "center",
			Sector:         SectorInner,
			SectorNumber:   1,
			Populations:    catalog.GalacticCenterPopulations(),
			RewardTile:     &ReputationTile{VictoryPoint: 4},
			AlienBlueprint: &blueprint,
		},
	}
}

func guardianTile(n int, c Coordinate) MapTile {
	blueprint := catalog.GuardianBlueprint()
	return MapTile{
		Coordinate: c,
		Borders:    DefaultBorders(),
		Objects:    []TileObject{{Type: ObjectAlien, Blueprint: &blueprint}},
		Tile: TileContent{
			ID:             TileID(fmt.Sprintf("guardian-%d", n)),
			Sector:         SectorMiddle,
			RewardTile:     &ReputationTile{VictoryPoint: 2},
			AlienBlueprint: &blueprint,
		},
	}
}

func homeTile(playerID string, seat int, board catalog.SpeciesBoard, c Coordinate) MapTile {
	objects := make([]TileObject, len(board.Ships))
	for i, s := range board.Ships {
		objects[i] = TileObject{Type: ObjectShip, Ship: s.Ship, PlayerID: playerID}
	}
	return MapTile{
		Coordinate: c,
		Borders:    DefaultBorders(),
		Influence:  &Influence{PlayerID: playerID},
		Objects:    objects,
		Tile: TileContent{
			ID:           TileID(fmt.Sprintf("home-%d", seat+1)),
			Sector:       SectorMiddle,
			SectorNumber: board.HomeSectorNo,
			Populations:  board.HomePopulations,
			RewardTile:   &ReputationTile{VictoryPoint: 3},
		},
	}
}
