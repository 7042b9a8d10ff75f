package catalog

import "sort"

const (
	EridaniEmpire      = "eridani-empire"
	HydranProgress     = "hydran-progress"
	Planta             = "planta"
	DescendantsOfDraco = "descendants-of-draco"
	Mechanema          = "mechanema"
	OrionHegemony      = "orion-hegemony"
	TerranDirectorate  = "terran-directorate"
	TerranFederation   = "terran-federation"
	TerranUnion        = "terran-union"
	TerranRepublic     = "terran-republic"
	TerranConglomerate = "terran-conglomerate"
	TerranAlliance     = "terran-alliance"
)

// DefaultSpecies is used for players that did not pick one.
const DefaultSpecies = EridaniEmpire

// influenceCosts is the upkeep cost printed under each influence track
// slot. The first influenceEmptySlots start without a disc.
var influenceCosts = []int{0, 0, 1, 2, 3, 5, 7, 10, 13, 17, 21, 25, 30}

const influenceEmptySlots = 2

var speciesBoards = map[string]SpeciesBoard{
	EridaniEmpire: {
		Species:      EridaniEmpire,
		Name:         "Eridani Empire",
		HomeSectorNo: 222,
		HomePopulations: []Population{
			{Type: Science, Activated: true},
			{Type: Science, Advanced: true},
			{Type: Money, Activated: true},
			{Type: Money, Advanced: true},
		},
		Storage: []StartingStorage{
			{Type: Material, Value: 4},
			{Type: Science, Value: 2},
			{Type: Money, Value: 26},
		},
		Ships:        []StartingShip{{Ship: Interceptor}},
		StartingTech: []string{"gauss-shield", "plasma-cannon"},
		ColonyShips:  3,
		TradeValue:   3,
		ReputationTrack: []ReputationSlot{
			{PossibleTiles: "both"},
			{PossibleTiles: "both"},
			{PossibleTiles: "both"},
			{PossibleTiles: "both"},
		},
		ActionTrack: []ActionCount{
			{Type: ActionExplore, Count: 1},
			{Type: ActionResearch, Count: 1},
			{Type: ActionUpgrade, Count: 2},
			{Type: ActionBuild, Count: 2},
			{Type: ActionMove, Count: 2},
			{Type: ActionInfluence, Count: 2},
		},
		Blueprints: []ShipBlueprint{
			interceptorBlueprint(ShipPart{EnergySource: 1}),
			cruiserBlueprint(ShipPart{EnergySource: 1}),
			dreadnoughtBlueprint(ShipPart{EnergySource: 1}),
			starbaseBlueprint(ShipPart{}),
		},
		Tray: SpeciesTray{
			InterceptorCount: 8,
			CruiserCount:     4,
			DreadnoughtCount: 2,
			StarbaseCount:    4,
		},
	},
}

// Species returns the board for the given species and whether it exists.
func Species(name string) (SpeciesBoard, bool) {
	board, ok := speciesBoards[name]
	if !ok {
		return SpeciesBoard{}, false
	}
	board.HomePopulations = append([]Population(nil), board.HomePopulations...)
	board.Storage = append([]StartingStorage(nil), board.Storage...)
	board.Ships = append([]StartingShip(nil), board.Ships...)
	board.StartingTech = append([]string(nil), board.StartingTech...)
	board.ReputationTrack = append([]ReputationSlot(nil), board.ReputationTrack...)
	board.ActionTrack = append([]ActionCount(nil), board.ActionTrack...)
	board.Blueprints = append([]ShipBlueprint(nil), board.Blueprints...)
	return board, true
}

// SpeciesNames lists the species that have a board, sorted.
func SpeciesNames() []string {
	names := make([]string, 0, len(speciesBoards))
	for name := range speciesBoards {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InfluenceCosts returns the per-slot costs of the influence track and how
// many leading slots start empty.
func InfluenceCosts() (costs []int, emptySlots int) {
	out := make([]int, len(influenceCosts))
	copy(out, influenceCosts)
	return out, influenceEmptySlots
}
