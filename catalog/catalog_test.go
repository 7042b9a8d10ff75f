package catalog

import "testing"

func TestTechTiles_KeysUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, tile := range TechTiles() {
		if seen[tile.Key] {
			t.Fatalf("duplicate tech key %q", tile.Key)
		}
		seen[tile.Key] = true
	}
}

func TestTechTiles_ReturnsCopy(t *testing.T) {
	tiles := TechTiles()
	tiles[0].Name = "changed"
	if TechTiles()[0].Name == "changed" {
		t.Fatal("TechTiles should not expose the catalog backing array")
	}
}

func TestSpecies_StartingTechExists(t *testing.T) {
	for _, name := range SpeciesNames() {
		board, ok := Species(name)
		if !ok {
			t.Fatalf("species %q listed but not found", name)
		}
		for _, key := range board.StartingTech {
			if _, ok := TechTileByKey(key); !ok {
				t.Errorf("species %q references unknown tech %q", name, key)
			}
		}
	}
}

func TestInfluenceCosts(t *testing.T) {
	costs, empty := InfluenceCosts()
	if len(costs) != 13 {
		t.Fatalf("Expected 13 influence slots, got %d", len(costs))
	}
	if empty != 2 {
		t.Errorf("Expected 2 empty slots, got %d", empty)
	}
	for i := 1; i < len(costs); i++ {
		if costs[i] < costs[i-1] {
			t.Errorf("influence costs not ascending at %d", i)
		}
	}
}
