package strategy

import (
	"testing"

	"tidebot/internal/risk"
)

func TestCatalogCoversEveryLimitedSymbol(t *testing.T) {
	limits := risk.Defaults()
	catalog := Catalog(limits)

	seen := map[string]bool{}
	for _, st := range catalog {
		if seen[st.Symbol()] {
			t.Fatalf("duplicate strategy for %s", st.Symbol())
		}
		seen[st.Symbol()] = true
	}
	for sym := range limits {
		if !seen[sym] {
			t.Fatalf("no strategy configured for %s", sym)
		}
	}
	if len(catalog) != len(limits) {
		t.Fatalf("catalog size %d does not match limit table %d", len(catalog), len(limits))
	}
}

func TestCatalogStatefulSet(t *testing.T) {
	stateful := map[string]bool{}
	for _, st := range Catalog(risk.Defaults()) {
		if _, ok := st.(Stateful); ok {
			stateful[st.Symbol()] = true
		}
	}

	// Market makers and the converter carry no cross-tick state; everything
	// signal-driven does.
	for _, sym := range []string{"RAINFOREST_RESIN", "KELP", "MAGNIFICENT_MACARONS"} {
		if stateful[sym] {
			t.Fatalf("%s should be stateless", sym)
		}
	}
	for _, sym := range []string{"SQUID_INK", "CROISSANTS", "JAMS", "DJEMBES", "PICNIC_BASKET1", "PICNIC_BASKET2", "VOLCANIC_ROCK"} {
		if !stateful[sym] {
			t.Fatalf("%s should be stateful", sym)
		}
	}
}

func TestCatalogDependencies(t *testing.T) {
	var jams Strategy
	for _, st := range Catalog(risk.Defaults()) {
		if st.Symbol() == "JAMS" {
			jams = st
		}
	}
	if jams == nil {
		t.Fatalf("JAMS strategy missing")
	}
	required := map[string]bool{}
	for _, sym := range jams.RequiredSymbols() {
		required[sym] = true
	}
	for _, sym := range []string{"JAMS", "CROISSANTS", "DJEMBES", "PICNIC_BASKET1", "PICNIC_BASKET2"} {
		if !required[sym] {
			t.Fatalf("JAMS must require %s, got %v", sym, jams.RequiredSymbols())
		}
	}
}
