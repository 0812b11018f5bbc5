package agegate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mynextid/zk-agegate/client"
	"github.com/mynextid/zk-agegate/flow"
	"github.com/mynextid/zk-agegate/session"
)

// errNotVerified is returned by commands behind the gate
var errNotVerified = errors.New("age verification required, run `agegate verify` first")

type verifyConfig struct {
	dob           string
	completeDelay time.Duration
	timeout       time.Duration
}

func NewVerifyCmd(app *App) *cobra.Command {
	cfg := &verifyConfig{}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify your age to unlock the event directory",
		Long: `Send the birth year derived from your date of birth to the server, which answers
with a zero-knowledge age proof result. The date of birth itself never leaves this machine.`,
		Example: `  agegate verify --dob 1990-06-01
  agegate verify --dob 1990-06-01 --server https://agegate.example`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, app, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.dob, "dob", "", "Date of birth (YYYY-MM-DD)")
	cmd.Flags().DurationVar(&cfg.completeDelay, "complete-delay", flow.CompleteDelay, "Pause on the success screen before showing events")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", 60*time.Second, "Upper bound of the verification call")

	return cmd
}

func runVerify(cmd *cobra.Command, app *App, cfg *verifyConfig) error {
	sess, err := app.Session()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if sess.Gate().Resolve(session.VerifyAge) == session.Events {
		fmt.Fprintln(out, "Age already verified.")
		return showEvents(cmd.Context(), out, app, &eventsConfig{country: defaultCountry})
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.timeout)
	defer cancel()

	f := flow.New(client.New(app.ServerURL), sess, flow.WithProgress(func(p int) {
		fmt.Fprintf(out, "\rVerifying age... [%-10s] %3d%%", strings.Repeat("#", p/10), p)
	}))

	if err := f.Submit(ctx, cfg.dob); err != nil {
		return err
	}

	snap := f.Snapshot()
	if snap.State != flow.Complete {
		fmt.Fprintln(out)
		return errors.New(snap.Message)
	}

	fmt.Fprintln(out, "\nAge verified! You can now access Web3 events.")
	if age, ok := sess.Marker().Age(time.Now()); ok {
		fmt.Fprintf(out, "Verified age: %d\n", age)
	}

	if cfg.completeDelay > 0 {
		select {
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		case <-time.After(cfg.completeDelay):
		}
	}
	return showEvents(cmd.Context(), out, app, &eventsConfig{country: defaultCountry})
}

func writeLines(w io.Writer, lines ...string) {
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
}
