package accounts

import (
	"fmt"
	"math/big"
)

// microScale converts major currency units to integer micro-units.
var microScale = big.NewRat(1_000_000, 1)

// Normalize converts a record's balance into reference-currency micro-units:
// floor(balance * rate * 1e6). All arithmetic is exact rational math over the
// decimal text so that values like 10.999999 survive the floor untouched.
func Normalize(record AccountRecord, rate string) (uint64, error) {
	balance, err := parseDecimal(record.Balance)
	if err != nil {
		return 0, fmt.Errorf("balance of account %q: %w", record.ID, err)
	}
	if balance.Sign() < 0 {
		return 0, fmt.Errorf("%w: account %q has balance %s", ErrNegativeBalance, record.ID, record.Balance)
	}
	rateVal, err := parseDecimal(rate)
	if err != nil {
		return 0, fmt.Errorf("conversion rate: %w", err)
	}
	if rateVal.Sign() <= 0 {
		return 0, fmt.Errorf("conversion rate %q is not positive", rate)
	}

	scaled := new(big.Rat).Mul(balance, rateVal)
	scaled.Mul(scaled, microScale)
	return floorToUint64(scaled)
}

// NormalizeThreshold converts a threshold expressed in reference-currency
// major units into micro-units with the same floor semantics as Normalize.
func NormalizeThreshold(threshold string) (uint64, error) {
	val, err := parseDecimal(threshold)
	if err != nil {
		return 0, fmt.Errorf("threshold: %w", err)
	}
	if val.Sign() < 0 {
		return 0, fmt.Errorf("threshold %q is negative", threshold)
	}
	scaled := new(big.Rat).Mul(val, microScale)
	return floorToUint64(scaled)
}

func floorToUint64(r *big.Rat) (uint64, error) {
	floor := new(big.Int).Quo(r.Num(), r.Denom())
	if floor.Sign() < 0 {
		floor.SetInt64(0)
	}
	if !floor.IsUint64() {
		return 0, fmt.Errorf("normalized amount %s overflows micro-unit range", floor.String())
	}
	return floor.Uint64(), nil
}
