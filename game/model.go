// Package game is the rules engine. Every exported transition takes a Game
// value and returns a new one; nothing here performs I/O or locking.
package game

import (
	"fmt"

	"github.com/wfunc/galaxyserver/catalog"
)

// Game is the complete state of one match. Values are treated as
// immutable: transitions copy the slices they change and share the rest.
type Game struct {
	Events             []Event       `json:"events"`
	Board              Board         `json:"board"`
	Tiles              []TileContent `json:"tiles"`
	CurrentPlayerIndex int           `json:"currentPlayerIndex"`
}

type Board struct {
	Players  []Player `json:"players"`
	TechTray TechTray `json:"techTray"`
	Map      Map      `json:"map"`
}

type Map struct {
	Tiles []MapTile `json:"tiles"`
}

// Coordinate is a hex position in doubled offset coordinates.
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

type Sector string

const (
	SectorInner  Sector = "inner"
	SectorMiddle Sector = "middle"
	SectorOuter  Sector = "outer"
)

// TileID identifies one physical sector tile for the lifetime of a game.
type TileID string

type ReputationTile struct {
	VictoryPoint int `json:"victoryPoint"`
}

// TileContent is the printed face of a sector tile.
type TileContent struct {
	ID             TileID                  `json:"id"`
	Sector         Sector                  `json:"sector"`
	SectorNumber   int                     `json:"sectorNumber"`
	Populations    []catalog.Population    `json:"populations"`
	RewardTile     *ReputationTile         `json:"rewardTile"`
	AlienBlueprint *catalog.AlienBlueprint `json:"alienBlueprint"`
}

type Border struct {
	Direction Direction `json:"type"`
	Wormhole  bool      `json:"wormhole"`
	// Neighbor is nil until a tile is placed on the adjacent hex.
	Neighbor *Coordinate `json:"neighbor"`
}

type Influence struct {
	PlayerID string `json:"playerId"`
}

type ObjectType string

const (
	ObjectShip     ObjectType = "ship"
	ObjectAlien    ObjectType = "alien"
	ObjectMonolith ObjectType = "monolith"
	ObjectOrbital  ObjectType = "orbital"
)

// TileObject is anything sitting on a placed tile. Which optional fields are
// set depends on Type.
type TileObject struct {
	Type       ObjectType              `json:"type"`
	Ship       catalog.ShipType        `json:"ship,omitempty"`
	PlayerID   string                  `json:"playerId,omitempty"`
	Blueprint  *catalog.AlienBlueprint `json:"blueprint,omitempty"`
	Population catalog.PopulationType  `json:"population,omitempty"`
}

type MapTile struct {
	Coordinate Coordinate   `json:"coordinate"`
	Borders    []Border     `json:"borders"`
	Influence  *Influence   `json:"influence"`
	Objects    []TileObject `json:"objects"`
	Tile       TileContent  `json:"tile"`
}

type TechTray struct {
	Tiles    []catalog.TechTile `json:"tiles"`
	Military []catalog.TechTile `json:"militaryTiles"`
	Grid     []catalog.TechTile `json:"gridTiles"`
	Nano     []catalog.TechTile `json:"nanoTiles"`
	Rare     []catalog.TechTile `json:"rareTiles"`
}

type Storage struct {
	Type            catalog.PopulationType `json:"type"`
	StorageValue    int                    `json:"storageValue"`
	ProductionValue int                    `json:"productionValue"`
}

// InfluenceSlot is one position of a player's influence track. Influence is
// nil once the disc has been spent.
type InfluenceSlot struct {
	Influence *Influence `json:"influence"`
	MoneyCost int        `json:"moneyCost"`
}

type PlayerAction struct {
	Type  catalog.ActionType `json:"type"`
	Count int                `json:"count"`
}

type TechTrack struct {
	Military []catalog.TechTile `json:"military"`
	Grid     []catalog.TechTile `json:"grid"`
	Nano     []catalog.TechTile `json:"nano"`
}

type ColonyShip struct {
	Swapped bool `json:"swapped"`
}

type Player struct {
	ID              string                   `json:"id"`
	Color           int                      `json:"color"`
	Species         string                   `json:"species"`
	Storages        []Storage                `json:"storages"`
	SpeciesTray     catalog.SpeciesTray      `json:"speciesTray"`
	InfluenceTrack  []InfluenceSlot          `json:"influenceTrack"`
	Actions         []PlayerAction           `json:"actions"`
	TechTrack       TechTrack                `json:"techTrack"`
	ColonyShips     []ColonyShip             `json:"colonyShips"`
	ReputationTrack []catalog.ReputationSlot `json:"reputationTrack"`
	Blueprints      []catalog.ShipBlueprint  `json:"blueprints"`
}

// CurrentPlayer returns the player whose turn it is.
func (g Game) CurrentPlayer() Player {
	return g.Board.Players[g.CurrentPlayerIndex]
}

// Player finds a player by id.
func (g Game) Player(id string) (Player, bool) {
	for _, p := range g.Board.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// TileAt returns the placed tile at c, if any.
func (g Game) TileAt(c Coordinate) (MapTile, bool) {
	if i := g.tileIndex(c); i >= 0 {
		return g.Board.Map.Tiles[i], true
	}
	return MapTile{}, false
}

// PoolSize counts the undrawn tiles of a sector.
func (g Game) PoolSize(sector Sector) int {
	n := 0
	for _, t := range g.Tiles {
		if t.Sector == sector {
			n++
		}
	}
	return n
}

func (g Game) tileIndex(c Coordinate) int {
	return indexAt(g.Board.Map.Tiles, c)
}

func (g Game) checkTurn(playerID string) error {
	if len(g.Board.Players) == 0 || g.CurrentPlayer().ID != playerID {
		return newError(CodeNotPlayersTurn, "not players turn: %s", playerID)
	}
	return nil
}

// appendEvents returns a fresh log; the previous backing array is never
// written to, so older Game values keep their own view.
func appendEvents(events []Event, more ...Event) []Event {
	out := make([]Event, 0, len(events)+len(more))
	out = append(out, events...)
	return append(out, more...)
}
