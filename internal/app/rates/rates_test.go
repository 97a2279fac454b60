package rates

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bellujrb/zkvip-ethglobal/pkg/logger"
)

func TestStaticRateLookup(t *testing.T) {
	provider := NewStatic(map[string]string{"USD": "0.18", "eur": "0.21"})

	rate, err := provider.Rate("USD")
	if err != nil || rate != "0.18" {
		t.Errorf("Rate(USD) = %q, %v", rate, err)
	}

	// codes are case insensitive both ways
	rate, err = provider.Rate("eur")
	if err != nil || rate != "0.21" {
		t.Errorf("Rate(eur) = %q, %v", rate, err)
	}
	rate, err = provider.Rate("EUR")
	if err != nil || rate != "0.21" {
		t.Errorf("Rate(EUR) = %q, %v", rate, err)
	}
}

func TestStaticUnknownCurrency(t *testing.T) {
	provider := NewStatic(map[string]string{"USD": "1"})
	if _, err := provider.Rate("JPY"); !errors.Is(err, ErrUnknownCurrency) {
		t.Errorf("Expected ErrUnknownCurrency, got %v", err)
	}
}

func TestStaticReplace(t *testing.T) {
	provider := NewStatic(map[string]string{"USD": "1"})
	provider.Replace(map[string]string{"usd": "2"})

	rate, err := provider.Rate("USD")
	if err != nil || rate != "2" {
		t.Errorf("Rate after Replace = %q, %v", rate, err)
	}
}

func TestRefreshingPullsNewTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"USD": "0.19", "GBP": "0.15"}`))
	}))
	defer srv.Close()

	provider, err := NewRefreshing(map[string]string{"USD": "0.18"}, srv.URL, "@every 1h", logger.New())
	if err != nil {
		t.Fatalf("NewRefreshing failed: %v", err)
	}

	provider.refresh()

	rate, err := provider.Rate("USD")
	if err != nil || rate != "0.19" {
		t.Errorf("Rate after refresh = %q, %v", rate, err)
	}
	if _, err := provider.Rate("GBP"); err != nil {
		t.Errorf("New currency missing after refresh: %v", err)
	}
}

func TestRefreshingKeepsTableOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	provider, err := NewRefreshing(map[string]string{"USD": "0.18"}, srv.URL, "@every 1h", logger.New())
	if err != nil {
		t.Fatalf("NewRefreshing failed: %v", err)
	}

	provider.refresh()

	rate, err := provider.Rate("USD")
	if err != nil || rate != "0.18" {
		t.Errorf("Failed refresh must keep previous table, got %q, %v", rate, err)
	}
}

func TestRefreshingRejectsBadSchedule(t *testing.T) {
	if _, err := NewRefreshing(nil, "http://unused", "not a schedule", logger.New()); err == nil {
		t.Error("Expected error for invalid cron schedule")
	}
}
