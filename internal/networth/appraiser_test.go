package networth

import (
	"context"
	"encoding/json"
	"testing"
)

func TestNetworthSumsLiquidCoins(t *testing.T) {
	a := New()
	member := json.RawMessage(`{"currencies":{"coin_purse":1500.5}}`)
	nw, err := a.Networth(context.Background(), member, nil, 2000)
	if err != nil {
		t.Fatalf("Networth: %v", err)
	}
	if nw != 3500.5 {
		t.Fatalf("Networth = %v, want 3500.5", nw)
	}
}

func TestNetworthMissingMember(t *testing.T) {
	a := New()
	if _, err := a.Networth(context.Background(), nil, nil, 0); err == nil {
		t.Fatalf("expected error for empty member data")
	}
}

func TestNetworthMalformedMember(t *testing.T) {
	a := New()
	if _, err := a.Networth(context.Background(), json.RawMessage(`{`), nil, 0); err == nil {
		t.Fatalf("expected error for malformed member data")
	}
}
