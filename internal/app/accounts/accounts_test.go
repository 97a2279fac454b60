package accounts

import (
	"errors"
	"testing"

	"github.com/bellujrb/zkvip-ethglobal/internal/app/evidence"
)

func mustView(t *testing.T, payload string) *evidence.VerifiedView {
	t.Helper()
	view, err := evidence.NewVerifier().Verify(evidence.Evidence{
		SourceURL:  "https://bank.test/snapshot",
		RawPayload: []byte(payload),
	})
	if err != nil {
		t.Fatalf("Failed to build view: %v", err)
	}
	return view
}

const twoAccountsDoc = `{
	"bank": {"id": "b1", "name": "Test Bank", "code": "TB"},
	"accounts": [
		{"id": "a1", "name": "Checking", "type": "checking", "balance": 1500.50, "currency": "USD"},
		{"id": "a2", "name": "Savings", "type": "savings", "balance": 5000.75, "currency": "USD"}
	]
}`

func TestSelectAccountPicksMaxBalance(t *testing.T) {
	record, err := SelectAccount(mustView(t, twoAccountsDoc))
	if err != nil {
		t.Fatalf("SelectAccount failed: %v", err)
	}
	if record.ID != "a2" {
		t.Errorf("Expected account a2, got %s", record.ID)
	}
	if record.Kind != KindSavings {
		t.Errorf("Expected savings kind, got %s", record.Kind)
	}
	if record.Balance != "5000.75" {
		t.Errorf("Balance text changed during selection: %s", record.Balance)
	}
}

func TestSelectAccountIsDeterministic(t *testing.T) {
	view := mustView(t, twoAccountsDoc)
	first, err := SelectAccount(view)
	if err != nil {
		t.Fatalf("First selection failed: %v", err)
	}
	second, err := SelectAccount(view)
	if err != nil {
		t.Fatalf("Second selection failed: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("Selection is not deterministic: %s vs %s", first.ID, second.ID)
	}
}

func TestSelectAccountTieBreaksOnSourceOrder(t *testing.T) {
	doc := `{
		"bank": {"id": "b1", "name": "Test Bank", "code": "TB"},
		"accounts": [
			{"id": "first", "name": "A", "type": "checking", "balance": 100, "currency": "USD"},
			{"id": "second", "name": "B", "type": "savings", "balance": 100, "currency": "USD"}
		]
	}`
	record, err := SelectAccount(mustView(t, doc))
	if err != nil {
		t.Fatalf("SelectAccount failed: %v", err)
	}
	if record.ID != "first" {
		t.Errorf("Tie should keep the first account in source order, got %s", record.ID)
	}
}

func TestSelectAccountEmpty(t *testing.T) {
	doc := `{"bank": {"id": "b1", "name": "Test Bank", "code": "TB"}, "accounts": []}`
	_, err := SelectAccount(mustView(t, doc))
	if !errors.Is(err, ErrNoAccountsFound) {
		t.Errorf("Expected ErrNoAccountsFound, got %v", err)
	}
}

func TestSelectAccountMalformedBalance(t *testing.T) {
	doc := `{"bank": {"id": "b1"}, "accounts": [{"id": "a1", "balance": "not-a-number", "currency": "USD"}]}`
	_, err := SelectAccount(mustView(t, doc))
	if !errors.Is(err, evidence.ErrMalformedEvidence) {
		t.Errorf("Expected ErrMalformedEvidence, got %v", err)
	}
}

func TestNormalizeExactTruncation(t *testing.T) {
	// 10.999999 * 1.0 must survive the floor untouched. Binary floating
	// point would land one micro-unit short here.
	record := AccountRecord{ID: "a1", Balance: "10.999999", CurrencyCode: "USD"}
	got, err := Normalize(record, "1.0")
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if got != 10999999 {
		t.Errorf("Expected 10999999 micro-units, got %d", got)
	}
}

func TestNormalizeWithRate(t *testing.T) {
	record := AccountRecord{ID: "a2", Balance: "5000.75", CurrencyCode: "USD"}
	got, err := Normalize(record, "0.18")
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if got != 900135000 {
		t.Errorf("Expected 900135000 micro-units, got %d", got)
	}
}

func TestNormalizeFloorsFractionalMicroUnits(t *testing.T) {
	record := AccountRecord{ID: "a1", Balance: "0.0000019", CurrencyCode: "USD"}
	got, err := Normalize(record, "1")
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if got != 1 {
		t.Errorf("Expected floor to 1 micro-unit, got %d", got)
	}
}

func TestNormalizeRejectsNegativeBalance(t *testing.T) {
	record := AccountRecord{ID: "a1", Balance: "-12.50", CurrencyCode: "USD"}
	_, err := Normalize(record, "1")
	if !errors.Is(err, ErrNegativeBalance) {
		t.Errorf("Expected ErrNegativeBalance, got %v", err)
	}
}

func TestNormalizeRejectsBadRate(t *testing.T) {
	record := AccountRecord{ID: "a1", Balance: "10", CurrencyCode: "USD"}
	if _, err := Normalize(record, "0"); err == nil {
		t.Error("Expected error for zero rate")
	}
	if _, err := Normalize(record, "oops"); err == nil {
		t.Error("Expected error for malformed rate")
	}
}

func TestNormalizeThreshold(t *testing.T) {
	got, err := NormalizeThreshold("1")
	if err != nil {
		t.Fatalf("NormalizeThreshold failed: %v", err)
	}
	if got != 1000000 {
		t.Errorf("Expected 1000000 micro-units, got %d", got)
	}

	got, err = NormalizeThreshold("0.5")
	if err != nil {
		t.Fatalf("NormalizeThreshold failed: %v", err)
	}
	if got != 500000 {
		t.Errorf("Expected 500000 micro-units, got %d", got)
	}

	if _, err := NormalizeThreshold("-1"); err == nil {
		t.Error("Expected error for negative threshold")
	}
}
