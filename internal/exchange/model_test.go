package exchange

import (
	"encoding/json"
	"testing"

	"tidebot/internal/book"
)

func TestSnapshotDecodeDefaults(t *testing.T) {
	payload := `{
		"timestamp": 1000,
		"depths": {
			"KELP": {"buy": {"2019": 10}, "sell": {"2021": -10}}
		}
	}`

	var snap Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.TraderData != "" {
		t.Fatalf("expected empty trader data, got %q", snap.TraderData)
	}
	if snap.Position("KELP") != 0 {
		t.Fatalf("missing position must default to 0")
	}
	if !snap.TwoSided("KELP") {
		t.Fatalf("expected two-sided KELP book")
	}
	if snap.MidPrice("KELP") != 2020 {
		t.Fatalf("unexpected mid: %v", snap.MidPrice("KELP"))
	}
}

func TestTwoSidedAcrossSymbols(t *testing.T) {
	snap := &Snapshot{
		Depths: map[string]*book.Depth{
			"A": {Buy: map[int]int{10: 1}, Sell: map[int]int{11: -1}},
			"B": {Buy: map[int]int{10: 1}},
		},
	}
	if !snap.TwoSided("A") {
		t.Fatalf("A should be two-sided")
	}
	if snap.TwoSided("A", "B") {
		t.Fatalf("B is one-sided, combined check must fail")
	}
	if snap.TwoSided("C") {
		t.Fatalf("absent book must not count as two-sided")
	}
}

func TestObservationRoundTrip(t *testing.T) {
	snap := &Snapshot{
		Timestamp: 5,
		Observations: Observation{
			PlainValues: map[string]float64{"DOLPHIN_SIGHTINGS": 3},
			Conversions: map[string]ConversionObservation{
				"MAGNIFICENT_MACARONS": {BidPrice: 650.5, AskPrice: 652, TransportFees: 1, ImportTariff: -2, SugarPrice: 200, SunlightIndex: 60},
			},
		},
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded Snapshot
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	obs := decoded.Observations.Conversions["MAGNIFICENT_MACARONS"]
	if obs.BidPrice != 650.5 || obs.ImportTariff != -2 || obs.SunlightIndex != 60 {
		t.Fatalf("observation lost in round trip: %+v", obs)
	}
}
