package attest

import (
	"errors"
	"fmt"
)

var (
	ErrProofSynthesisFailed = errors.New("proof synthesis failed")
	ErrProofInvalid         = errors.New("generated proof did not verify")
	ErrCancelled            = errors.New("attestation cancelled")
)

// InsufficientBalanceError means the normalized balance did not reach the
// threshold, so no proof attempt was made.
type InsufficientBalanceError struct {
	RequiredMicro  uint64
	AvailableMicro uint64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("balance %d below required threshold %d (micro-units)", e.AvailableMicro, e.RequiredMicro)
}
