package common

import (
	"bytes"
	"fmt"
	"math/big"
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"
)

// Proof is the outcome of ProveAndVerify
type Proof struct {
	// PublicSignals follow the declaration order of the public circuit fields
	PublicSignals []*big.Int
	Proof         []byte
	Timings       Timings
}

// Timings of the proving stages
type Timings struct {
	Witness time.Duration
	Prove   time.Duration
	Verify  time.Duration
}

func (t Timings) Total() time.Duration {
	return t.Witness + t.Prove + t.Verify
}

// ProveAndVerify creates the witness, proves it, extracts the public witness
// and verifies the proof against the verifying key of the setup.
func ProveAndVerify(assignment frontend.Circuit, s *Setup) (*Proof, error) {
	var timings Timings

	start := time.Now()
	witness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("witness creation failed: %w", err)
	}
	timings.Witness = time.Since(start)

	start = time.Now()
	proof, err := groth16.Prove(s.CS, s.ProvingKey, witness)
	if err != nil {
		return nil, fmt.Errorf("proof creation failed: %w", err)
	}
	timings.Prove = time.Since(start)

	publicWitness, err := witness.Public()
	if err != nil {
		return nil, fmt.Errorf("public witness extraction failed: %w", err)
	}

	start = time.Now()
	if err := groth16.Verify(proof, s.VerifyingKey, publicWitness); err != nil {
		return nil, fmt.Errorf("proof verification failed: %w", err)
	}
	timings.Verify = time.Since(start)

	vec, ok := publicWitness.Vector().(fr.Vector)
	if !ok {
		return nil, fmt.Errorf("unexpected public witness type %T", publicWitness.Vector())
	}
	signals := make([]*big.Int, len(vec))
	for i := range vec {
		signals[i] = vec[i].BigInt(new(big.Int))
	}

	var proofBuf bytes.Buffer
	if _, err := proof.WriteTo(&proofBuf); err != nil {
		return nil, fmt.Errorf("proof to buffer failed: %w", err)
	}

	return &Proof{
		PublicSignals: signals,
		Proof:         proofBuf.Bytes(),
		Timings:       timings,
	}, nil
}
