package common

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
)

// ErrBundleNotFound is returned when one of the bundle artifacts is missing
var ErrBundleNotFound = errors.New("circuit bundle not found")

// Bundle locates the compiled circuit and its Groth16 keys on disk:
// <Dir>/<Name>-<Version>.ccs|.pk|.vk
type Bundle struct {
	Dir     string
	Name    string
	Version uint
}

func (b Bundle) path(ext string) string {
	return filepath.Join(b.Dir, fmt.Sprintf("%s-%d.%s", b.Name, b.Version, ext))
}

func (b Bundle) CCSPath() string { return b.path("ccs") }
func (b Bundle) PKPath() string  { return b.path("pk") }
func (b Bundle) VKPath() string  { return b.path("vk") }

// Exists reports whether all three artifacts are present
func (b Bundle) Exists() bool {
	return fileExists(b.CCSPath()) && fileExists(b.PKPath()) && fileExists(b.VKPath())
}

// Setup is a loaded bundle
type Setup struct {
	CS           constraint.ConstraintSystem
	ProvingKey   groth16.ProvingKey
	VerifyingKey groth16.VerifyingKey
}

// SetupAndSave compiles the circuit, runs the Groth16 setup and writes the
// artifacts of the bundle. It returns the number of constraints.
func SetupAndSave(circuitTemplate frontend.Circuit, b Bundle) (int, error) {
	if err := os.MkdirAll(b.Dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create bundle directory: %w", err)
	}

	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, circuitTemplate)
	if err != nil {
		return 0, fmt.Errorf("circuit compilation failed: %w", err)
	}

	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return 0, fmt.Errorf("groth16 setup failed: %w", err)
	}

	if err := writeTo(b.CCSPath(), ccs); err != nil {
		return 0, err
	}
	if err := writeTo(b.PKPath(), pk); err != nil {
		return 0, err
	}
	if err := writeTo(b.VKPath(), vk); err != nil {
		return 0, err
	}

	return ccs.GetNbConstraints(), nil
}

// LoadSetup loads a pre-compiled bundle
func LoadSetup(b Bundle) (*Setup, error) {
	if !b.Exists() {
		return nil, fmt.Errorf("%w: %s-%d in %s", ErrBundleNotFound, b.Name, b.Version, b.Dir)
	}

	ccs := groth16.NewCS(ecc.BN254)
	if err := readFrom(b.CCSPath(), ccs); err != nil {
		return nil, err
	}

	pk := groth16.NewProvingKey(ecc.BN254)
	if err := readFrom(b.PKPath(), pk); err != nil {
		return nil, err
	}

	vk := groth16.NewVerifyingKey(ecc.BN254)
	if err := readFrom(b.VKPath(), vk); err != nil {
		return nil, err
	}

	return &Setup{CS: ccs, ProvingKey: pk, VerifyingKey: vk}, nil
}

func writeTo(path string, w io.WriterTo) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := w.WriteTo(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func readFrom(path string, r io.ReaderFrom) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if _, err := r.ReadFrom(f); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
