package game

// TriggerTilePick places a tile at c for the current player and passes the
// turn to the next seat. With spendInfluence the first disc left on the
// player's influence track moves onto the new tile.
func TriggerTilePick(g Game, playerID string, c Coordinate, tile TileContent, spendInfluence bool, rotation int) (Game, error) {
	if err := g.checkTurn(playerID); err != nil {
		return g, err
	}
	if g.tileIndex(c) >= 0 {
		return g, newError(CodeCoordinateOccupied, "coordinate %s already has a tile", c)
	}
	if err := g.checkPlaceable(tile); err != nil {
		return g, err
	}

	placed := MapTile{
		Coordinate: c,
		Borders:    DefaultBorders(),
		Objects:    []TileObject{},
		Tile:       tile,
	}
	if tile.AlienBlueprint != nil {
		blueprint := *tile.AlienBlueprint
		placed.Objects = append(placed.Objects, TileObject{Type: ObjectAlien, Blueprint: &blueprint})
	}

	players := g.Board.Players
	if spendInfluence {
		seat := g.CurrentPlayerIndex
		player := players[seat]
		slot := firstInfluence(player.InfluenceTrack)
		if slot < 0 {
			return g, newError(CodeInfluenceExhausted, "player %s has no influence left", playerID)
		}
		influence := *player.InfluenceTrack[slot].Influence
		placed.Influence = &influence

		track := make([]InfluenceSlot, len(player.InfluenceTrack))
		copy(track, player.InfluenceTrack)
		track[slot].Influence = nil
		player.InfluenceTrack = track

		players = make([]Player, len(g.Board.Players))
		copy(players, g.Board.Players)
		players[seat] = player
	}

	tiles := make([]MapTile, 0, len(g.Board.Map.Tiles)+1)
	tiles = append(tiles, g.Board.Map.Tiles...)
	tiles = append(tiles, placed)
	tiles = resolveNeighbors(tiles, len(tiles)-1)

	next := g
	next.Board.Players = players
	next.Board.Map = Map{Tiles: tiles}
	next.Events = appendEvents(g.Events, PlayerPlaceTile{
		PlayerID:   playerID,
		Coordinate: c,
		Tile:       tile,
		Rotation:   rotation,
		Influence:  spendInfluence,
	})
	next.CurrentPlayerIndex = (g.CurrentPlayerIndex + 1) % len(g.Board.Players)
	return next, nil
}

// FoldTile discards a drawn tile instead of placing it. The tile does not
// return to the pool and the turn stays with the player.
func FoldTile(g Game, playerID string, tile *TileContent) (Game, error) {
	if err := g.checkTurn(playerID); err != nil {
		return g, err
	}
	next := g
	next.Events = appendEvents(g.Events, PlayerFoldTile{PlayerID: playerID, Tile: tile})
	return next, nil
}

func firstInfluence(track []InfluenceSlot) int {
	for i, s := range track {
		if s.Influence != nil {
			return i
		}
	}
	return -1
}

// resolveNeighbors links tile i with every placed tile around it, in both
// directions. It returns a new slice; tiles whose borders change are copied.
func resolveNeighbors(tiles []MapTile, i int) []MapTile {
	out := make([]MapTile, len(tiles))
	copy(out, tiles)

	self := out[i]
	self.Borders = cloneBorders(self.Borders)
	for bi, b := range self.Borders {
		at := Neighbor(self.Coordinate, b.Direction)
		j := indexAt(out, at)
		if j < 0 || j == i {
			continue
		}
		self.Borders[bi].Neighbor = &at

		other := out[j]
		other.Borders = cloneBorders(other.Borders)
		back := Opposite(b.Direction)
		for k := range other.Borders {
			if other.Borders[k].Direction == back {
				c := self.Coordinate
				other.Borders[k].Neighbor = &c
			}
		}
		out[j] = other
	}
	out[i] = self
	return out
}

func cloneBorders(borders []Border) []Border {
	out := make([]Border, len(borders))
	copy(out, borders)
	return out
}

func indexAt(tiles []MapTile, c Coordinate) int {
	for i, t := range tiles {
		if t.Coordinate == c {
			return i
		}
	}
	return -1
}

// checkPlaceable rejects a tile that is still in the draw pool or already on
// the map, so no tile is ever placed twice.
func (g Game) checkPlaceable(tile TileContent) error {
	if tile.ID == "" {
		return nil
	}
	for _, t := range g.Tiles {
		if t.ID == tile.ID {
			return newError(CodeMalformedEvent, "tile %s has not been drawn", tile.ID)
		}
	}
	for _, t := range g.Board.Map.Tiles {
		if t.Tile.ID == tile.ID {
			return newError(CodeMalformedEvent, "tile %s is already at %s", tile.ID, t.Coordinate)
		}
	}
	return nil
}
