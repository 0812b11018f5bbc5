package oracle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mynextid/zk-agegate/circuits/age"
	"github.com/mynextid/zk-agegate/common"
)

const (
	CircuitName    = "age"
	CircuitVersion = 1
	DefaultMinAge  = 18
)

// Bundle returns the age circuit bundle located in dir
func Bundle(dir string) common.Bundle {
	return common.Bundle{Dir: dir, Name: CircuitName, Version: CircuitVersion}
}

// Compile writes the age circuit bundle to dir. Existing bundles are kept
// unless force is set; compiled reports whether a new bundle was written.
func Compile(dir string, force bool) (compiled bool, nbConstraints int, err error) {
	b := Bundle(dir)
	if b.Exists() && !force {
		return false, 0, nil
	}
	nbConstraints, err = common.SetupAndSave(&age.Circuit{}, b)
	if err != nil {
		return false, 0, err
	}
	return true, nbConstraints, nil
}

// BundleInfo describes a bundle directory as seen by the oracle
type BundleInfo struct {
	Name        string `json:"name"`
	Version     uint   `json:"version"`
	Loaded      bool   `json:"loaded"`
	Constraints int    `json:"constraints,omitempty"`
}

// Groth16 is the gnark backed Oracle. Bundles are loaded once per directory
// and are read-only afterwards, so concurrent Verify calls share them.
type Groth16 struct {
	mu     sync.Mutex
	setups map[string]*common.Setup

	minAge int
	now    func() time.Time
}

// Option configures a Groth16 oracle
type Option func(*Groth16)

// WithMinAge sets the age threshold. Default is 18.
func WithMinAge(n int) Option {
	return func(g *Groth16) {
		if n > 0 {
			g.minAge = n
		}
	}
}

// WithClock sets the source of the current year
func WithClock(now func() time.Time) Option {
	return func(g *Groth16) {
		if now != nil {
			g.now = now
		}
	}
}

func NewGroth16(opts ...Option) *Groth16 {
	g := &Groth16{
		setups: make(map[string]*common.Setup),
		minAge: DefaultMinAge,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Load returns the cached setup of dir, loading it on first use
func (g *Groth16) Load(dir string) (*common.Setup, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if s, ok := g.setups[dir]; ok {
		return s, nil
	}
	s, err := common.LoadSetup(Bundle(dir))
	if err != nil {
		return nil, err
	}
	g.setups[dir] = s
	return s, nil
}

// Info reports whether the bundle of dir is loaded
func (g *Groth16) Info(dir string) BundleInfo {
	info := BundleInfo{Name: CircuitName, Version: CircuitVersion}

	g.mu.Lock()
	defer g.mu.Unlock()
	if s, ok := g.setups[dir]; ok {
		info.Loaded = true
		info.Constraints = s.CS.GetNbConstraints()
	}
	return info
}

// Verify proves the age predicate for the birth year and verifies the proof.
// The prover cannot be interrupted; if ctx ends first its result is dropped.
func (g *Groth16) Verify(ctx context.Context, in Input, bundleDir string) (*Result, error) {
	if in.BirthYear < 0 || in.BirthYear >= 1<<age.BirthYearBits {
		return nil, fmt.Errorf("%w: %d", ErrBirthYearOutOfRange, in.BirthYear)
	}

	setup, err := g.Load(bundleDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load the circuit: %w", err)
	}

	assignment := age.NewAssignment(in.BirthYear, g.now().Year(), g.minAge)

	type outcome struct {
		proof *common.Proof
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		p, err := common.ProveAndVerify(assignment, setup)
		done <- outcome{proof: p, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case o := <-done:
		if o.err != nil {
			return nil, o.err
		}
		return &Result{
			PublicSignals: o.proof.PublicSignals,
			Proof:         o.proof.Proof,
			Duration:      o.proof.Timings.Total(),
		}, nil
	}
}

var _ Oracle = (*Groth16)(nil)
