// Package oracle wraps the zero-knowledge age predicate behind a single call:
// given a birth year and a circuit bundle directory, produce the public
// signals of a verified proof.
package oracle

//go:generate mockgen -source=oracle.go -destination=mocks/oracle_mock.go -package=mocks Oracle

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"
)

var (
	// ErrInvalidSignal is returned when the predicate output is not 0 or 1
	ErrInvalidSignal = errors.New("public signal is not a boolean")
	// ErrBirthYearOutOfRange is returned for birth years the circuit cannot encode
	ErrBirthYearOutOfRange = errors.New("birth year out of range")
)

// Input of the oracle. Only the birth year crosses the network.
type Input struct {
	BirthYear int
}

// Result of a verified proof
type Result struct {
	// PublicSignals index 0 is the age predicate output
	PublicSignals []*big.Int
	Proof         []byte
	// Duration covers witness creation, proving and verification
	Duration time.Duration
}

// Oracle proves and verifies the age predicate against the bundle in bundleDir
type Oracle interface {
	Verify(ctx context.Context, in Input, bundleDir string) (*Result, error)
}

// Signal maps the first public signal to a strict boolean
func Signal(r *Result) (bool, error) {
	if r == nil || len(r.PublicSignals) == 0 || r.PublicSignals[0] == nil {
		return false, fmt.Errorf("%w: no public signals", ErrInvalidSignal)
	}
	s := r.PublicSignals[0]
	switch {
	case s.Cmp(big.NewInt(0)) == 0:
		return false, nil
	case s.Cmp(big.NewInt(1)) == 0:
		return true, nil
	default:
		return false, fmt.Errorf("%w: got %s", ErrInvalidSignal, s.String())
	}
}
