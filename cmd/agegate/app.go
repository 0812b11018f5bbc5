package agegate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mynextid/zk-agegate/session"
)

// EnvPrefix prefixes the environment variables backing command flags
const EnvPrefix = "AGEGATE_"

// App holds the state shared by the client commands
type App struct {
	ServerURL   string
	SessionFile string
	EnvFile     string

	once    sync.Once
	session *session.Context
	err     error
}

func NewApp() *App {
	return &App{}
}

// Register adds the persistent flags and every agegate command to root
func (a *App) Register(root *cobra.Command) {
	root.PersistentFlags().StringVar(&a.ServerURL, "server", "http://localhost:8080", "Base URL of the agegate server")
	root.PersistentFlags().StringVar(&a.SessionFile, "session-file", "", "Session marker file (default <user config dir>/agegate/session.json)")
	root.PersistentFlags().StringVar(&a.EnvFile, "env-file", ".env", "Environment file loaded before flags are resolved")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := loadEnvFile(a.EnvFile); err != nil {
			return err
		}
		return applyEnv(cmd)
	}

	root.AddCommand(
		NewServeCmd(),
		NewCompileCmd(),
		NewVerifyCmd(a),
		NewEventsCmd(a),
		NewRegisterCmd(a),
		NewWalletsCmd(),
		NewSignOutCmd(a),
	)
}

// Session loads the session marker once per process
func (a *App) Session() (*session.Context, error) {
	a.once.Do(func() {
		path := a.SessionFile
		if path == "" {
			path, a.err = session.DefaultPath()
			if a.err != nil {
				return
			}
		}
		a.session, a.err = session.NewContext(session.NewFileStore(path))
	})
	return a.session, a.err
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// applyEnv sets every flag not given on the command line from its
// AGEGATE_<FLAG_NAME> environment variable
func applyEnv(cmd *cobra.Command) error {
	var errs []error
	apply := func(f *pflag.Flag) {
		if f.Changed {
			return
		}
		v, ok := os.LookupEnv(envKey(f.Name))
		if !ok {
			return
		}
		if err := f.Value.Set(v); err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", envKey(f.Name), err))
			return
		}
		f.Changed = true
	}
	cmd.Flags().VisitAll(apply)
	cmd.InheritedFlags().VisitAll(apply)
	return errors.Join(errs...)
}

func envKey(flag string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}
