package domain

import "testing"

func TestFactionsByType(t *testing.T) {
	counts := map[FactionType]int{}
	for _, f := range Factions() {
		if !f.Type.Valid() {
			t.Fatalf("faction %q has invalid type %q", f.Name, f.Type)
		}
		counts[f.Type]++
	}

	for _, ft := range []FactionType{FactionOpen, FactionClosed, FactionCriminal} {
		if got := len(FactionsByType(ft)); got != counts[ft] {
			t.Errorf("%s: FactionsByType returned %d, catalog has %d", ft, got, counts[ft])
		}
	}
	if counts[FactionOpen] != 7 || counts[FactionClosed] != 4 || counts[FactionCriminal] != 3 {
		t.Fatalf("unexpected catalog shape: %v", counts)
	}
}

func TestLookupFaction(t *testing.T) {
	f, ok := LookupFaction("Армия")
	if !ok || f.General != "Pancake" {
		t.Fatalf("unexpected lookup result: %+v, %v", f, ok)
	}
	if _, ok := LookupFaction("Гильдия воров"); ok {
		t.Fatal("unknown faction must not be found")
	}
}

func TestFactions_ReturnsCopy(t *testing.T) {
	list := Factions()
	list[0].Name = "changed"
	if Factions()[0].Name == "changed" {
		t.Fatal("catalog must not be mutable through Factions()")
	}
}
