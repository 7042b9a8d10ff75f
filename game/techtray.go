package game

import (
	"sort"

	"github.com/wfunc/galaxyserver/catalog"
)

// TechDrawCount is how many tiles one refill adds for a player count.
func TechDrawCount(playerCount int) int {
	return playerCount + 3
}

// RefillTechTray draws TechDrawCount tiles with replacement from the full
// catalog, adds them to the tiles already on offer and rebuilds the sorted
// partitions. The given tray is not modified.
func RefillTechTray(tray TechTray, playerCount int, rng Rand) TechTray {
	all := catalog.TechTiles()
	n := TechDrawCount(playerCount)
	tiles := make([]catalog.TechTile, 0, len(tray.Tiles)+n)
	tiles = append(tiles, tray.Tiles...)
	for i := 0; i < n; i++ {
		tiles = append(tiles, all[rng.Intn(len(all))])
	}
	return TechTray{
		Tiles:    tiles,
		Military: partition(tiles, catalog.TechMilitary),
		Grid:     partition(tiles, catalog.TechGrid),
		Nano:     partition(tiles, catalog.TechNano),
		Rare:     partition(tiles, catalog.TechRare),
	}
}

func partition(tiles []catalog.TechTile, kind catalog.TechTileType) []catalog.TechTile {
	out := make([]catalog.TechTile, 0)
	for _, t := range tiles {
		if t.Type == kind {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Costs.Default < out[j].Costs.Default
	})
	return out
}
