package catalog

var gluonComputerPart = ShipPartTile{
	Type: PartComputer,
	Name: "Gluon Computer",
	Part: ShipPart{Computer: 3},
}

// techTiles is ordered; random draws index into it, so the order is part of
// the catalog's contract for seeded games.
var techTiles = []TechTile{
	{Key: "neutron-bombs", Type: TechMilitary, Name: "Neutron Bombs", Costs: TechCosts{Default: 2, Minimum: 2}},
	{Key: "starbase", Type: TechMilitary, Name: "Starbase", Costs: TechCosts{Default: 4, Minimum: 3}},
	{Key: "plasma-cannon", Type: TechMilitary, Name: "Plasma Cannon", Costs: TechCosts{Default: 6, Minimum: 4}},
	{Key: "phase-shield", Type: TechMilitary, Name: "Phase Shield", Costs: TechCosts{Default: 8, Minimum: 5}},
	{Key: "advanced-mining", Type: TechMilitary, Name: "Advanced Mining", Costs: TechCosts{Default: 10, Minimum: 6}},
	{Key: "tachyon-source", Type: TechMilitary, Name: "Tachyon Source", Costs: TechCosts{Default: 12, Minimum: 6}},
	{Key: "gluon-computer", Type: TechMilitary, Name: "Gluon Computer", ShipPartTile: &gluonComputerPart, Costs: TechCosts{Default: 14, Minimum: 7}},
	{Key: "plasma-missile", Type: TechMilitary, Name: "Plasma Missile", Costs: TechCosts{Default: 16, Minimum: 8}},
	{Key: "gauss-shield", Type: TechGrid, Name: "Gauss Shield", Costs: TechCosts{Default: 2, Minimum: 2}},
	{Key: "fusion-source", Type: TechGrid, Name: "Fusion Source", Costs: TechCosts{Default: 4, Minimum: 3}},
	{Key: "improved-hull", Type: TechGrid, Name: "Improved Hull", Costs: TechCosts{Default: 6, Minimum: 4}},
	{Key: "positron-computer", Type: TechGrid, Name: "Positron Computer", Costs: TechCosts{Default: 8, Minimum: 5}},
	{Key: "advanced-economy", Type: TechGrid, Name: "Advanced Economy", Costs: TechCosts{Default: 10, Minimum: 6}},
	{Key: "tachyon-drive", Type: TechGrid, Name: "Tachyon Drive", Costs: TechCosts{Default: 12, Minimum: 6}},
	{Key: "antimatter-cannon", Type: TechGrid, Name: "Antimatter Cannon", Costs: TechCosts{Default: 14, Minimum: 7}},
	{Key: "quantum-grid", Type: TechGrid, Name: "Quantum Grid", Costs: TechCosts{Default: 16, Minimum: 8}},
}

// TechTiles returns a copy of the full technology catalog in catalog order.
func TechTiles() []TechTile {
	out := make([]TechTile, len(techTiles))
	copy(out, techTiles)
	return out
}

// TechTileByKey looks up a technology by key.
func TechTileByKey(key string) (TechTile, bool) {
	for _, t := range techTiles {
		if t.Key == key {
			return t, true
		}
	}
	return TechTile{}, false
}
