// Package catalog holds the static reference data of the game: technology
// tiles, species boards, ship and alien blueprints. Everything here is read
// only; callers receive copies.
package catalog

// PopulationType is a resource kind produced by population cubes.
type PopulationType string

const (
	Money    PopulationType = "money"
	Science  PopulationType = "science"
	Material PopulationType = "material"
)

// ActionType is one of the six player actions of a round.
type ActionType string

const (
	ActionExplore   ActionType = "explore"
	ActionResearch  ActionType = "research"
	ActionUpgrade   ActionType = "upgrade"
	ActionBuild     ActionType = "build"
	ActionMove      ActionType = "move"
	ActionInfluence ActionType = "influence"
)

type TechTileType string

const (
	TechMilitary TechTileType = "military"
	TechGrid     TechTileType = "grid"
	TechNano     TechTileType = "nano"
	TechRare     TechTileType = "rare"
)

type ShipType string

const (
	Interceptor ShipType = "interceptor"
	Cruiser     ShipType = "cruiser"
	Dreadnought ShipType = "dreadnought"
	Starbase    ShipType = "starbase"
)

type AlienType string

const (
	Ancient  AlienType = "ancient"
	Guardian AlienType = "guardian"
	// GCDS is the galactic center defense system.
	GCDS AlienType = "gcds"
)

type ShipPartTileType string

const (
	PartWeapon       ShipPartTileType = "weapon"
	PartComputer     ShipPartTileType = "computer"
	PartShield       ShipPartTileType = "shield"
	PartHull         ShipPartTileType = "hull"
	PartDrive        ShipPartTileType = "drive"
	PartEnergySource ShipPartTileType = "energy-source"
)

// ShipPart is the stat block of a ship part, a base hull or an alien.
type ShipPart struct {
	RequiredEnergy int `json:"requiredEnergy"`
	EnergySource   int `json:"energySource"`
	Initiative     int `json:"initiative"`
	Drive          int `json:"drive"`
	Hull           int `json:"hull"`
	Computer       int `json:"computer"`
	WeaponCount    int `json:"weaponCount"`
	WeaponHits     int `json:"weaponHits"`
	MissileCount   int `json:"missileCount"`
	MissileHits    int `json:"missileHits"`
	Shield         int `json:"shield"`
}

type ShipPartTile struct {
	Type ShipPartTileType `json:"type"`
	Name string           `json:"name"`
	Part ShipPart         `json:"part"`
}

type TechCosts struct {
	Default int `json:"default"`
	Minimum int `json:"minimum"`
}

// TechTile is one researchable technology. Key is unique within the catalog.
type TechTile struct {
	Key          string        `json:"key"`
	Type         TechTileType  `json:"type"`
	Name         string        `json:"name"`
	ShipPartTile *ShipPartTile `json:"shipPartTile"`
	Costs        TechCosts     `json:"costs"`
}

type AlienBlueprint struct {
	AlienType       AlienType `json:"alienType"`
	InitiativeBonus int       `json:"initiativeBonus"`
	Stats           ShipPart  `json:"stats"`
}

type ShipBlueprint struct {
	ShipType            ShipType       `json:"shipType"`
	BuildCost           int            `json:"buildCost"`
	BaseInitiativeBonus int            `json:"baseInitiativeBonus"`
	BaseShip            ShipPart       `json:"baseShip"`
	Upgrades            []ShipPartTile `json:"upgrades"`
}

type Population struct {
	Type      PopulationType `json:"type"`
	Advanced  bool           `json:"advanced"`
	Activated bool           `json:"activated"`
}

type StartingStorage struct {
	Type  PopulationType `json:"type"`
	Value int            `json:"value"`
}

type ActionCount struct {
	Type  ActionType `json:"type"`
	Count int        `json:"count"`
}

type ReputationSlot struct {
	// PossibleTiles is "ambassador", "reputation" or "both".
	PossibleTiles string `json:"possibleTiles"`
}

// StartingShip is a ship a species begins the game with on its home tile.
type StartingShip struct {
	Ship ShipType `json:"ship"`
}

type SpeciesTray struct {
	InterceptorCount int `json:"interceptorCount"`
	CruiserCount     int `json:"cruiserCount"`
	DreadnoughtCount int `json:"dreadnoughtCount"`
	StarbaseCount    int `json:"starbaseCount"`
}

// SpeciesBoard describes the starting state of one playable species.
type SpeciesBoard struct {
	Species         string
	Name            string
	HomeSectorNo    int
	HomePopulations []Population
	Storage         []StartingStorage
	Ships           []StartingShip
	StartingTech    []string
	ColonyShips     int
	TradeValue      int
	ReputationTrack []ReputationSlot
	ActionTrack     []ActionCount
	Blueprints      []ShipBlueprint
	Tray            SpeciesTray
}
