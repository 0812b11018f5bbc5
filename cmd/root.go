package main

import (
	"github.com/spf13/cobra"

	"github.com/mynextid/zk-agegate/cmd/agegate"
)

// Init the cmd
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "agegate",
		Short:         "Zero-knowledge age gate for Web3 events",
		Long:          `Verify your age with a zero-knowledge proof and browse age-restricted Web3 events`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	agegate.NewApp().Register(rootCmd)
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}
