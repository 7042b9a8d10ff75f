package catalog

func interceptorBlueprint(base ShipPart) ShipBlueprint {
	return ShipBlueprint{ShipType: Interceptor, BuildCost: 3, BaseShip: base}
}

func cruiserBlueprint(base ShipPart) ShipBlueprint {
	return ShipBlueprint{ShipType: Cruiser, BuildCost: 5, BaseShip: base}
}

func dreadnoughtBlueprint(base ShipPart) ShipBlueprint {
	return ShipBlueprint{ShipType: Dreadnought, BuildCost: 8, BaseShip: base}
}

func starbaseBlueprint(base ShipPart) ShipBlueprint {
	return ShipBlueprint{ShipType: Starbase, BuildCost: 3, BaseShip: base}
}

func GuardianBlueprint() AlienBlueprint {
	return AlienBlueprint{
		AlienType:       Guardian,
		InitiativeBonus: 3,
		Stats:           ShipPart{Hull: 2, Computer: 2, WeaponCount: 3, WeaponHits: 1},
	}
}

func AncientBlueprint() AlienBlueprint {
	return AlienBlueprint{
		AlienType:       Ancient,
		InitiativeBonus: 2,
		Stats:           ShipPart{Hull: 1, Computer: 1, WeaponCount: 2, WeaponHits: 1},
	}
}

func GalacticCenterBlueprint() AlienBlueprint {
	return AlienBlueprint{
		AlienType: GCDS,
		Stats:     ShipPart{Hull: 7, Computer: 2, MissileCount: 3, MissileHits: 1},
	}
}

// GalacticCenterPopulations are the population squares of the center tile.
func GalacticCenterPopulations() []Population {
	return []Population{
		{Type: Money},
		{Type: Money},
		{Type: Material},
		{Type: Material, Advanced: true},
		{Type: Science},
		{Type: Science, Advanced: true},
	}
}
