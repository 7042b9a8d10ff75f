package game

import "fmt"

const (
	innerSectorCount  = 6
	middleSectorCount = 6

	innerSectorBase  = 1
	middleSectorBase = 10
	outerSectorBase  = 100
)

var outerSectorCounts = map[int]int{2: 5, 3: 8, 4: 14, 5: 16, 6: 18}

// OuterSectorCount is the number of outer tiles in play for a player count.
func OuterSectorCount(playerCount int) (int, bool) {
	n, ok := outerSectorCounts[playerCount]
	return n, ok
}

// NewTilePool builds the draw pool for a game. Sector numbers are unique
// across the pool and double as the tile identifiers.
func NewTilePool(playerCount int) ([]TileContent, error) {
	outer, ok := OuterSectorCount(playerCount)
	if !ok {
		return nil, newError(CodeUnsupportedPlayerCount, "unsupported player count %d", playerCount)
	}
	tiles := make([]TileContent, 0, innerSectorCount+middleSectorCount+outer)
	tiles = appendSector(tiles, SectorInner, innerSectorBase, innerSectorCount)
	tiles = appendSector(tiles, SectorMiddle, middleSectorBase, middleSectorCount)
	tiles = appendSector(tiles, SectorOuter, outerSectorBase, outer)
	return tiles, nil
}

func appendSector(tiles []TileContent, sector Sector, base, count int) []TileContent {
	for i := 0; i < count; i++ {
		number := base + i
		tiles = append(tiles, TileContent{
			ID:           TileID(fmt.Sprintf("%s-%d", sector, number)),
			Sector:       sector,
			SectorNumber: number,
			RewardTile:   &ReputationTile{VictoryPoint: 2},
		})
	}
	return tiles
}

// drawTile picks a uniformly random tile of the sector and returns it with a
// new pool that no longer contains it.
func drawTile(pool []TileContent, sector Sector, rng Rand) (TileContent, []TileContent, error) {
	candidates := make([]int, 0, len(pool))
	for i, t := range pool {
		if t.Sector == sector {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return TileContent{}, nil, newError(CodeSectorExhausted, "sector %s exhausted", sector)
	}
	picked := pool[candidates[rng.Intn(len(candidates))]]
	return picked, removeTile(pool, picked.ID), nil
}

func removeTile(pool []TileContent, id TileID) []TileContent {
	out := make([]TileContent, 0, len(pool))
	for _, t := range pool {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}
