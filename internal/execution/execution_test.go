package execution

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"tidebot/internal/exchange"
)

func TestSubmitWritesDecisionLine(t *testing.T) {
	var sink, logs bytes.Buffer
	exec := NewExecutor(&sink, zerolog.New(&logs))

	decision := Decision{
		Timestamp:   100,
		Orders:      map[string][]exchange.Order{"KELP": {{Symbol: "KELP", Price: 2000, Quantity: 5}}},
		Conversions: 3,
		TraderData:  "{}",
	}
	if err := exec.Submit(decision); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	var decoded Decision
	if err := json.Unmarshal(sink.Bytes(), &decoded); err != nil {
		t.Fatalf("decision line is not valid JSON: %v", err)
	}
	if decoded.Conversions != 3 || len(decoded.Orders["KELP"]) != 1 {
		t.Fatalf("unexpected decoded decision: %+v", decoded)
	}
	if !strings.Contains(logs.String(), "decision submitted") {
		t.Fatalf("expected submission log, got: %s", logs.String())
	}
}

func TestSideOf(t *testing.T) {
	if SideOf(exchange.Order{Quantity: 4}) != Buy {
		t.Fatalf("expected positive quantity to be BUY")
	}
	if SideOf(exchange.Order{Quantity: -4}) != Sell {
		t.Fatalf("expected negative quantity to be SELL")
	}
}
