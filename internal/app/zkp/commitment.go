package zkp

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/poseidon2"
)

// ComputeCommitment hashes (balance, blinding) with the same poseidon2
// construction the circuit uses, so the native result matches the in-circuit
// assertion. Both inputs are laid out as 32 byte field elements.
func ComputeCommitment(balanceMicro uint64, blinding []byte) (*big.Int, error) {
	blindingInt := new(big.Int).SetBytes(blinding)
	if blindingInt.Cmp(fr.Modulus()) >= 0 {
		return nil, fmt.Errorf("blinding factor does not fit the scalar field")
	}

	hasher := poseidon2.NewMerkleDamgardHasher()

	balanceBytes := make([]byte, fr.Bytes)
	new(big.Int).SetUint64(balanceMicro).FillBytes(balanceBytes)
	blindingBytes := make([]byte, fr.Bytes)
	blindingInt.FillBytes(blindingBytes)

	if _, err := hasher.Write(balanceBytes); err != nil {
		return nil, err
	}
	if _, err := hasher.Write(blindingBytes); err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(hasher.Sum(nil)), nil
}
