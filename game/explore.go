package game

// TriggerExploreAction draws a random tile for the sector of c on behalf of
// the current player. The drawn tile is returned so the caller can offer it
// for placement or folding; the turn does not advance.
func TriggerExploreAction(g Game, playerID string, c Coordinate, rng Rand) (Game, TileContent, error) {
	if err := g.checkTurn(playerID); err != nil {
		return g, TileContent{}, err
	}
	if g.tileIndex(c) >= 0 {
		return g, TileContent{}, newError(CodeCoordinateOccupied, "coordinate %s already explored", c)
	}

	tile, pool, err := drawTile(g.Tiles, SectorFor(c), rng)
	if err != nil {
		return g, TileContent{}, err
	}

	next := g
	next.Tiles = pool
	next.Events = appendEvents(g.Events,
		PlayerExploreAction{PlayerID: playerID, Coordinate: c},
		GameTileDraw{PlayerID: playerID, Tile: tile},
	)
	return next, tile, nil
}

// ExploreCandidates lists the hexes a player could explore: every wormhole
// border without a placed neighbor on a tile the player influences. A hex
// bordering several of the player's tiles is listed once per border.
func ExploreCandidates(g Game, playerID string) []Coordinate {
	var out []Coordinate
	for _, t := range g.Board.Map.Tiles {
		if t.Influence == nil || t.Influence.PlayerID != playerID {
			continue
		}
		for _, b := range t.Borders {
			if !b.Wormhole || b.Neighbor != nil {
				continue
			}
			out = append(out, Neighbor(t.Coordinate, b.Direction))
		}
	}
	return out
}
