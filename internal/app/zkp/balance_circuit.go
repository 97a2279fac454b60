package zkp

import (
	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/poseidon2"
)

const ElipticalCurveID = ecc.BN254

// BalanceCircuit proves that a hidden balance meets or exceeds a public
// threshold. The balance stays secret behind a poseidon2 commitment, and the
// public nonce ties the proof to a single attestation attempt.
//
// Public variable order matters: gnark lays the public witness out in
// declaration order, which envelope verification relies on.
type BalanceCircuit struct {
	ThresholdMicro frontend.Variable `gnark:",public"`
	Nonce          frontend.Variable `gnark:",public"`
	Commitment     frontend.Variable `gnark:",public"`

	BalanceMicro frontend.Variable `gnark:",secret"`
	Blinding     frontend.Variable `gnark:",secret"`
}

func (circuit *BalanceCircuit) Define(api frontend.API) error {
	hasher, err := poseidon2.New(api)
	if err != nil {
		return err
	}
	hasher.Write(circuit.BalanceMicro, circuit.Blinding)
	api.AssertIsEqual(hasher.Sum(), circuit.Commitment)

	api.AssertIsLessOrEqual(circuit.ThresholdMicro, circuit.BalanceMicro)
	return nil
}
