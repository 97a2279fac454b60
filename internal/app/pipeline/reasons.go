package pipeline

import (
	"errors"

	"github.com/bellujrb/zkvip-ethglobal/internal/app/accounts"
	"github.com/bellujrb/zkvip-ethglobal/internal/app/attest"
	"github.com/bellujrb/zkvip-ethglobal/internal/app/evidence"
	"github.com/bellujrb/zkvip-ethglobal/internal/app/rates"
	"github.com/bellujrb/zkvip-ethglobal/pkg/reasoncodes"
)

// ReasonForError maps a pipeline failure to its stable reason code.
func ReasonForError(err error) reasoncodes.ReasonCode {
	var insufficient *attest.InsufficientBalanceError
	switch {
	case errors.As(err, &insufficient):
		return reasoncodes.ErrInsufficientBalance
	case errors.Is(err, attest.ErrCancelled):
		return reasoncodes.ErrCancelled
	case errors.Is(err, attest.ErrProofInvalid):
		return reasoncodes.ErrProofInvalid
	case errors.Is(err, attest.ErrProofSynthesisFailed):
		return reasoncodes.ErrProofGeneration
	case errors.Is(err, evidence.ErrSourceRejected):
		return reasoncodes.ErrSourceRejected
	case errors.Is(err, evidence.ErrSourceUnreachable):
		return reasoncodes.ErrSourceUnreachable
	case errors.Is(err, evidence.ErrPathNotFound):
		return reasoncodes.ErrPathNotFound
	case errors.Is(err, evidence.ErrMalformedEvidence):
		return reasoncodes.ErrMalformedEvidence
	case errors.Is(err, accounts.ErrNoAccountsFound):
		return reasoncodes.ErrNoAccountsFound
	case errors.Is(err, accounts.ErrNegativeBalance):
		return reasoncodes.ErrNegativeBalance
	case errors.Is(err, rates.ErrUnknownCurrency):
		return reasoncodes.ErrUnknownCurrency
	default:
		return reasoncodes.ErrInternal
	}
}
