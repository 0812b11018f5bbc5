package agegate

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mynextid/zk-agegate/oracle"
)

type compileConfig struct {
	outputDir string
	force     bool
}

func NewCompileCmd() *cobra.Command {
	cfg := &compileConfig{}

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile the age circuit and generate setup files",
		Long:  `Compile the age circuit and generate its constraint system, proving key and verifying key.`,
		Example: `  # Compile to ./setup
  agegate compile -o ./setup

  # Regenerate the keys
  agegate compile -o ./setup --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, cfg)
		},
	}

	cmd.Flags().StringVarP(&cfg.outputDir, "output", "o", "./setup", "Output directory for the circuit bundle")
	cmd.Flags().BoolVarP(&cfg.force, "force", "f", false, "Overwrite existing files")

	return cmd
}

func runCompile(cmd *cobra.Command, cfg *compileConfig) error {
	out := cmd.OutOrStdout()
	b := oracle.Bundle(cfg.outputDir)

	fmt.Fprintf(out, "\n==== Compiling %s-%d to %s ====\n", b.Name, b.Version, cfg.outputDir)
	start := time.Now()

	compiled, constraints, err := oracle.Compile(cfg.outputDir, cfg.force)
	if err != nil {
		return fmt.Errorf("failed to compile %s: %w", b.Name, err)
	}
	if !compiled {
		fmt.Fprintf(out, "%s already exists, skipping (use --force to overwrite)\n", b.CCSPath())
		return nil
	}

	fmt.Fprintf(out, "[OK] Compiled %s (%d constraints) in %s\n", b.Name, constraints, time.Since(start).Round(time.Millisecond))
	return nil
}
