package rates

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var ErrUnknownCurrency = errors.New("no conversion rate for currency")

// Provider resolves a trusted conversion rate from a source currency into
// the reference currency. Rates are decimal text so callers can do exact
// arithmetic on them.
type Provider interface {
	Rate(currencyCode string) (string, error)
}

// Static serves a fixed rate table, typically loaded from configuration.
type Static struct {
	mu    sync.RWMutex
	table map[string]string
}

func NewStatic(table map[string]string) *Static {
	normalized := make(map[string]string, len(table))
	for code, rate := range table {
		normalized[strings.ToUpper(code)] = rate
	}
	return &Static{table: normalized}
}

func (s *Static) Rate(currencyCode string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rate, ok := s.table[strings.ToUpper(currencyCode)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownCurrency, currencyCode)
	}
	return rate, nil
}

// Replace swaps the whole table atomically.
func (s *Static) Replace(table map[string]string) {
	normalized := make(map[string]string, len(table))
	for code, rate := range table {
		normalized[strings.ToUpper(code)] = rate
	}
	s.mu.Lock()
	s.table = normalized
	s.mu.Unlock()
}
