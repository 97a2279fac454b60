package reasoncodes

type ReasonCode string

const (
	ErrUnmarshal           ReasonCode = "UnmarshalError"
	ErrSourceUnreachable   ReasonCode = "SourceUnreachableError"
	ErrSourceRejected      ReasonCode = "SourceRejectedError"
	ErrMalformedEvidence   ReasonCode = "MalformedEvidenceError"
	ErrPathNotFound        ReasonCode = "PathNotFoundError"
	ErrNoAccountsFound     ReasonCode = "NoAccountsFoundError"
	ErrNegativeBalance     ReasonCode = "NegativeBalanceError"
	ErrInsufficientBalance ReasonCode = "InsufficientBalanceError"
	ErrProofGeneration     ReasonCode = "ProofGenerationError"
	ErrProofInvalid        ReasonCode = "ProofInvalidError"
	ErrCancelled           ReasonCode = "CancelledError"
	ErrUnknownCurrency     ReasonCode = "UnknownCurrencyError"
	ErrInternal            ReasonCode = "InternalError"
)
