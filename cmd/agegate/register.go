package agegate

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/mynextid/zk-agegate/events"
)

func NewRegisterCmd(app *App) *cobra.Command {
	cfg := &eventsConfig{}
	var delay time.Duration

	cmd := &cobra.Command{
		Use:     "register <event-id>",
		Short:   "Register for an event",
		Args:    cobra.ExactArgs(1),
		Example: `  agegate register 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid event id: %s", args[0])
			}

			dir, err := openDirectory(cmd.Context(), app, cfg)
			if err != nil {
				return err
			}
			e, ok := dir.ByID(id)
			if !ok {
				return fmt.Errorf("event %d not found", id)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Registering for %s...\n", e.Title)
			msg, err := events.Register(cmd.Context(), e, delay)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}

	cmd.Flags().StringVar(&cfg.country, "country", defaultCountry, "Country of the events")
	cmd.Flags().StringVar(&cfg.source, "source", sourceStatic, "Event source (static, server)")
	cmd.Flags().DurationVar(&delay, "delay", events.DefaultRegisterDelay, "Simulated registration delay")

	return cmd
}

func NewWalletsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wallets",
		Short: "List supported wallets",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Connect your wallet:")
			for _, w := range events.Wallets() {
				fmt.Fprintf(out, "  %-16s %s\n", w.Name, w.URL)
			}
		},
	}
}

func NewSignOutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Forget the age verification of this machine",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.Session()
			if err != nil {
				return err
			}
			if _, err := sess.SignOut(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}
