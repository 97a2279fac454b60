package attest

import "context"

// Inputs carries everything the proof system needs for one attestation
// attempt. BalanceMicro and Blinding are witness secrets and must never be
// logged or serialized outside the proof system.
type Inputs struct {
	ThresholdMicro uint64
	BalanceMicro   uint64
	Nonce          []byte
	Blinding       []byte
}

// PublicInputs is the disclosed part of an attestation: the threshold that
// was proven against and the per-attempt nonce that binds the proof to this
// request. The balance itself stays hidden.
type PublicInputs struct {
	ThresholdMicro uint64
	Nonce          []byte
}

// ProofOutput is what the proof system hands back after proving.
type ProofOutput struct {
	IsValid    bool
	ProofBytes []byte
}

// Result is a finalized attestation outcome.
type Result struct {
	IsValid    bool
	ProofBytes []byte
	Public     PublicInputs
}

// ProofSystem generates and self-checks zero knowledge proofs. onProgress
// receives proving progress in the range [0, 100].
type ProofSystem interface {
	GenerateRandomNonce() ([]byte, error)
	GenerateBlinding() ([]byte, error)
	GenerateProof(ctx context.Context, inputs Inputs, onProgress func(percent int)) (ProofOutput, error)
}
