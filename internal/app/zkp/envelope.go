package zkp

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/witness"
	"github.com/near/borsh-go"

	"github.com/bellujrb/zkvip-ethglobal/internal/app/attest"
)

// ProofEnvelope bundles everything a relying party needs to check an
// attestation proof offline.
type ProofEnvelope struct {
	Proof         groth16.Proof
	VerifyingKey  groth16.VerifyingKey
	PublicWitness witness.Witness
}

type intermediateSerializationStep struct {
	Proof         []byte `borsh:"proof"`
	VerifyingKey  []byte `borsh:"verifying_key"`
	PublicWitness []byte `borsh:"public_witness"`
}

func (pe *ProofEnvelope) SerializeBorsh() ([]byte, error) {
	var proofBuf bytes.Buffer
	if _, err := pe.Proof.WriteTo(&proofBuf); err != nil {
		return nil, err
	}

	var vkBuf bytes.Buffer
	if _, err := pe.VerifyingKey.WriteTo(&vkBuf); err != nil {
		return nil, err
	}

	var witnessBuf bytes.Buffer
	if _, err := pe.PublicWitness.WriteTo(&witnessBuf); err != nil {
		return nil, err
	}

	envelopeSerializable := intermediateSerializationStep{
		Proof:         proofBuf.Bytes(),
		VerifyingKey:  vkBuf.Bytes(),
		PublicWitness: witnessBuf.Bytes(),
	}

	return borsh.Serialize(envelopeSerializable)
}

// proof reconstruction
func ReconstructProofEnvelope(serialized []byte) (*ProofEnvelope, error) {
	var deserialized intermediateSerializationStep
	if err := borsh.Deserialize(&deserialized, serialized); err != nil {
		return nil, err
	}

	proof := groth16.NewProof(ElipticalCurveID)
	if _, err := proof.ReadFrom(bytes.NewReader(deserialized.Proof)); err != nil {
		return nil, err
	}

	vk := groth16.NewVerifyingKey(ElipticalCurveID)
	if _, err := vk.ReadFrom(bytes.NewReader(deserialized.VerifyingKey)); err != nil {
		return nil, err
	}

	publicWitness, err := witness.New(ElipticalCurveID.ScalarField())
	if err != nil {
		return nil, err
	}
	if _, err := publicWitness.ReadFrom(bytes.NewReader(deserialized.PublicWitness)); err != nil {
		return nil, err
	}

	return &ProofEnvelope{
		Proof:         proof,
		VerifyingKey:  vk,
		PublicWitness: publicWitness,
	}, nil
}

// VerifyEnvelope checks a serialized proof against the expected public
// inputs: the groth16 pairing check must pass and the embedded public
// witness must carry the threshold and nonce the relying party asked for.
func VerifyEnvelope(serialized []byte, public attest.PublicInputs) error {
	envelope, err := ReconstructProofEnvelope(serialized)
	if err != nil {
		return fmt.Errorf("reconstruct proof envelope: %w", err)
	}

	vector, ok := envelope.PublicWitness.Vector().(fr.Vector)
	if !ok || len(vector) < 3 {
		return errors.New("public witness has unexpected shape")
	}

	var expectedThreshold fr.Element
	expectedThreshold.SetUint64(public.ThresholdMicro)
	if !vector[0].Equal(&expectedThreshold) {
		return errors.New("public witness threshold mismatch")
	}

	var expectedNonce fr.Element
	expectedNonce.SetBigInt(new(big.Int).SetBytes(public.Nonce))
	if !vector[1].Equal(&expectedNonce) {
		return errors.New("public witness nonce mismatch")
	}

	if err := groth16.Verify(envelope.Proof, envelope.VerifyingKey, envelope.PublicWitness); err != nil {
		return fmt.Errorf("%w: %v", attest.ErrProofInvalid, err)
	}
	return nil
}
