package accounts

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/bellujrb/zkvip-ethglobal/internal/app/evidence"
)

type AccountKind string

const (
	KindChecking AccountKind = "checking"
	KindSavings  AccountKind = "savings"
)

var (
	ErrNoAccountsFound = errors.New("no account records found in evidence")
	ErrNegativeBalance = errors.New("negative balance cannot be attested")
)

// AccountRecord is one bank account extracted from a verified view. Balance
// keeps the provider's exact decimal text; parsing happens at normalization.
type AccountRecord struct {
	ID           string
	DisplayName  string
	Kind         AccountKind
	Balance      string
	CurrencyCode string
}

// bankDocument mirrors the provider's response schema:
// { bank: { id, name, code }, accounts: [ { id, name, type, balance, currency } ] }
type bankDocument struct {
	Bank struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Code string `json:"code"`
	} `json:"bank"`
	Accounts []accountJson `json:"accounts"`
}

type accountJson struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Type     string      `json:"type"`
	Balance  json.Number `json:"balance"`
	Currency string      `json:"currency"`
}

// SelectAccount decodes the typed account schema from the view and picks the
// account with the maximum balance. On ties the first in source order wins,
// which keeps selection reproducible for a given snapshot. Deterministic for
// a fixed view: calling it twice yields the same record.
func SelectAccount(view *evidence.VerifiedView) (AccountRecord, error) {
	var doc bankDocument
	if err := view.Decode(&doc); err != nil {
		return AccountRecord{}, err
	}
	if len(doc.Accounts) == 0 {
		return AccountRecord{}, ErrNoAccountsFound
	}

	var (
		best    accountJson
		bestVal *big.Rat
	)
	for _, acc := range doc.Accounts {
		val, err := parseDecimal(acc.Balance.String())
		if err != nil {
			return AccountRecord{}, fmt.Errorf("%w: account %q balance: %v", evidence.ErrMalformedEvidence, acc.ID, err)
		}
		if bestVal == nil || val.Cmp(bestVal) > 0 {
			best = acc
			bestVal = val
		}
	}

	return AccountRecord{
		ID:           best.ID,
		DisplayName:  best.Name,
		Kind:         AccountKind(strings.ToLower(best.Type)),
		Balance:      best.Balance.String(),
		CurrencyCode: best.Currency,
	}, nil
}

func parseDecimal(text string) (*big.Rat, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("empty decimal")
	}
	r, ok := new(big.Rat).SetString(text)
	if !ok {
		return nil, fmt.Errorf("invalid decimal %q", text)
	}
	return r, nil
}
