package zkp

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	gnarklogger "github.com/consensys/gnark/logger"
	"github.com/rs/zerolog"

	"github.com/bellujrb/zkvip-ethglobal/internal/app/attest"
	"github.com/bellujrb/zkvip-ethglobal/pkg/logger"
)

// nonceByteLen keeps nonces comfortably inside the BN254 scalar field, so a
// nonce round-trips through the public witness without modular reduction.
const nonceByteLen = 16

const blindingByteLen = 16

// Prover implements proof generation with groth16 over BN254. Each call runs
// a full compile, setup and prove cycle so nothing circuit-specific is kept
// between attestation attempts.
type Prover struct {
	log *logger.Logger
}

func NewProver(log *logger.Logger) *Prover {
	return &Prover{log: log}
}

func (p *Prover) GenerateRandomNonce() ([]byte, error) {
	return randomFieldBytes(nonceByteLen)
}

func (p *Prover) GenerateBlinding() ([]byte, error) {
	return randomFieldBytes(blindingByteLen)
}

func randomFieldBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("reading randomness: %w", err)
	}
	return buf, nil
}

// GenerateProof builds and self-checks a balance threshold proof. onProgress
// receives percentages in [0, 100]; 100 is reported only after the generated
// proof verified against its own public witness.
func (p *Prover) GenerateProof(ctx context.Context, inputs attest.Inputs, onProgress func(percent int)) (attest.ProofOutput, error) {
	if onProgress == nil {
		onProgress = func(int) {}
	}

	// gnark logs compilation chatter through its own zerolog instance.
	// Silence it for the duration of the proving run.
	oldGnarkLogger := gnarklogger.Logger()
	gnarklogger.Set(zerolog.New(io.Discard).Level(zerolog.Disabled))
	defer gnarklogger.Set(oldGnarkLogger)

	commitment, err := ComputeCommitment(inputs.BalanceMicro, inputs.Blinding)
	if err != nil {
		return attest.ProofOutput{}, fmt.Errorf("compute commitment: %w", err)
	}

	var circuit BalanceCircuit
	ccs, err := frontend.Compile(ElipticalCurveID.ScalarField(), r1cs.NewBuilder, &circuit)
	if err != nil {
		return attest.ProofOutput{}, fmt.Errorf("%w: compile circuit: %v", attest.ErrProofSynthesisFailed, err)
	}
	onProgress(25)
	if err := ctx.Err(); err != nil {
		return attest.ProofOutput{}, err
	}

	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return attest.ProofOutput{}, fmt.Errorf("%w: groth16 setup: %v", attest.ErrProofSynthesisFailed, err)
	}
	onProgress(55)
	if err := ctx.Err(); err != nil {
		return attest.ProofOutput{}, err
	}

	assignment := BalanceCircuit{
		ThresholdMicro: inputs.ThresholdMicro,
		Nonce:          new(big.Int).SetBytes(inputs.Nonce),
		Commitment:     commitment,
		BalanceMicro:   inputs.BalanceMicro,
		Blinding:       new(big.Int).SetBytes(inputs.Blinding),
	}

	fullWitness, err := frontend.NewWitness(&assignment, ElipticalCurveID.ScalarField())
	if err != nil {
		return attest.ProofOutput{}, fmt.Errorf("%w: new witness: %v", attest.ErrProofSynthesisFailed, err)
	}
	onProgress(70)
	if err := ctx.Err(); err != nil {
		return attest.ProofOutput{}, err
	}

	proof, err := groth16.Prove(ccs, pk, fullWitness)
	if err != nil {
		return attest.ProofOutput{}, fmt.Errorf("%w: groth16 prove: %v", attest.ErrProofSynthesisFailed, err)
	}
	onProgress(90)
	if err := ctx.Err(); err != nil {
		return attest.ProofOutput{}, err
	}

	publicWitness, err := fullWitness.Public()
	if err != nil {
		return attest.ProofOutput{}, fmt.Errorf("%w: public witness: %v", attest.ErrProofSynthesisFailed, err)
	}

	if err := groth16.Verify(proof, vk, publicWitness); err != nil {
		p.log.Error(err, "self-check of generated proof failed")
		return attest.ProofOutput{IsValid: false}, nil
	}

	envelope := ProofEnvelope{
		Proof:         proof,
		VerifyingKey:  vk,
		PublicWitness: publicWitness,
	}
	proofBytes, err := envelope.SerializeBorsh()
	if err != nil {
		return attest.ProofOutput{}, fmt.Errorf("serialize proof envelope: %w", err)
	}

	onProgress(100)
	return attest.ProofOutput{IsValid: true, ProofBytes: proofBytes}, nil
}
