package age

import (
	"github.com/consensys/gnark/frontend"
)

// BirthYearBits bounds the birth year witness. Years outside [0, 2^16) cannot
// be proven.
const BirthYearBits = 16

// Circuit functions
// - range check the birth year
// - flag birth years after the current year
// - compare the derived age with the minimum age
// - bind the result to the public Eligible signal
//
// Public inputs are exported in declaration order, so Eligible is always
// the first public signal.
type Circuit struct {
	// Public output: 1 when the holder is of age, 0 otherwise
	Eligible    frontend.Variable `gnark:",public"`
	CurrentYear frontend.Variable `gnark:",public"`
	MinAge      frontend.Variable `gnark:",public"`

	// Secret input
	BirthYear frontend.Variable `gnark:",secret"`
}

func (c *Circuit) Define(api frontend.API) error {
	api.ToBinary(c.BirthYear, BirthYearBits)
	api.AssertIsBoolean(c.Eligible)

	// BirthYear > CurrentYear would wrap the subtraction below
	bornLater := api.IsZero(api.Sub(api.Cmp(c.BirthYear, c.CurrentYear), 1))

	age := api.Sub(c.CurrentYear, c.BirthYear)
	tooYoung := api.IsZero(api.Add(api.Cmp(age, c.MinAge), 1))

	eligible := api.Mul(api.Sub(1, bornLater), api.Sub(1, tooYoung))
	api.AssertIsEqual(c.Eligible, eligible)

	return nil
}

// IsEligible is the native counterpart of Define. The prover uses it to fill
// the Eligible witness.
func IsEligible(birthYear, currentYear, minAge int) bool {
	if birthYear > currentYear {
		return false
	}
	return currentYear-birthYear >= minAge
}

// NewAssignment builds a full witness assignment for the given inputs.
func NewAssignment(birthYear, currentYear, minAge int) *Circuit {
	eligible := 0
	if IsEligible(birthYear, currentYear, minAge) {
		eligible = 1
	}
	return &Circuit{
		Eligible:    eligible,
		CurrentYear: currentYear,
		MinAge:      minAge,
		BirthYear:   birthYear,
	}
}
