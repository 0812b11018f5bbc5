package agegate

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mynextid/zk-agegate/session"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := &cobra.Command{Use: "agegate", SilenceUsage: true, SilenceErrors: true}
	NewApp().Register(root)

	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(append(args, "--env-file", ""))
	err := root.Execute()
	return out.String(), err
}

func verifyServer(t *testing.T, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	calls := &atomic.Int32{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, calls
}

func TestVerifyEligibleShowsEvents(t *testing.T) {
	srv, _ := verifyServer(t, `{"isValid":1}`)
	sessionFile := filepath.Join(t.TempDir(), "session.json")

	out, err := run(t, "verify", "--dob", "1990-06-01", "--complete-delay", "0",
		"--server", srv.URL, "--session-file", sessionFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Age verified!")
	assert.Contains(t, out, "Web3 Events in United States")
	assert.Contains(t, out, "DeFi Summit 2024")

	m, err := session.NewFileStore(sessionFile).Load()
	require.NoError(t, err)
	assert.True(t, m.AgeVerified)
	assert.Equal(t, "1990-06-01", m.DateOfBirth)
}

func TestVerifyUnderage(t *testing.T) {
	srv, _ := verifyServer(t, `{"isValid":0}`)
	sessionFile := filepath.Join(t.TempDir(), "session.json")

	_, err := run(t, "verify", "--dob", "2015-01-01", "--server", srv.URL, "--session-file", sessionFile)
	require.EqualError(t, err, "You must be 18 or older to access Web3 events")

	_, statErr := os.Stat(sessionFile)
	assert.True(t, os.IsNotExist(statErr))
}

func TestVerifyMissingDateMakesNoCall(t *testing.T) {
	srv, calls := verifyServer(t, `{"isValid":1}`)

	_, err := run(t, "verify", "--server", srv.URL, "--session-file", filepath.Join(t.TempDir(), "s.json"))
	require.EqualError(t, err, "Please enter your date of birth")
	assert.Zero(t, calls.Load())
}

func TestVerifyServerDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := run(t, "verify", "--dob", "1990-06-01", "--server", url, "--session-file", filepath.Join(t.TempDir(), "s.json"))
	require.EqualError(t, err, "Verification failed. Please try again.")
}

func TestVerifyWhenAlreadyVerified(t *testing.T) {
	srv, calls := verifyServer(t, `{"isValid":1}`)
	sessionFile := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, session.NewFileStore(sessionFile).Commit(session.Marker{AgeVerified: true, DateOfBirth: "1990-06-01"}))

	out, err := run(t, "verify", "--dob", "1990-06-01", "--server", srv.URL, "--session-file", sessionFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Age already verified.")
	assert.Zero(t, calls.Load())
}

func TestEventsRequireVerification(t *testing.T) {
	_, err := run(t, "events", "--session-file", filepath.Join(t.TempDir(), "s.json"))
	assert.ErrorIs(t, err, errNotVerified)
}

func verifiedSession(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, session.NewFileStore(path).Commit(session.Marker{AgeVerified: true, DateOfBirth: "1990-06-01"}))
	return path
}

func TestEventsSearch(t *testing.T) {
	sessionFile := verifiedSession(t)

	out, err := run(t, "events", "--search", "workshop", "--category", "dao", "--session-file", sessionFile)
	require.NoError(t, err)
	assert.Contains(t, out, "DAO Governance Workshop")
	assert.NotContains(t, out, "Blockchain Developer Workshop")
	assert.NotContains(t, out, "Featured:")
	assert.Contains(t, out, "1 event(s)")

	out, err = run(t, "events", "--search", "solana", "--session-file", sessionFile)
	require.NoError(t, err)
	assert.Contains(t, out, "No events found")
}

func TestEventsFromEnvironment(t *testing.T) {
	sessionFile := verifiedSession(t)
	t.Setenv("AGEGATE_SEARCH", "cryptoart")

	out, err := run(t, "events", "--session-file", sessionFile)
	require.NoError(t, err)
	assert.Contains(t, out, "NFT Art Gallery Opening")
	assert.Contains(t, out, "1 event(s)")
}

func TestRegister(t *testing.T) {
	sessionFile := verifiedSession(t)

	out, err := run(t, "register", "3", "--delay", "0", "--session-file", sessionFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully registered for Blockchain Developer Workshop!")

	_, err = run(t, "register", "99", "--delay", "0", "--session-file", sessionFile)
	assert.EqualError(t, err, "event 99 not found")
}

func TestSignOut(t *testing.T) {
	sessionFile := verifiedSession(t)

	out, err := run(t, "signout", "--session-file", sessionFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Signed out.")

	_, err = run(t, "events", "--session-file", sessionFile)
	assert.ErrorIs(t, err, errNotVerified)
}

func TestWallets(t *testing.T) {
	out, err := run(t, "wallets")
	require.NoError(t, err)
	assert.Contains(t, out, "MetaMask")
	assert.Contains(t, out, "https://www.coinbase.com/wallet")
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "AGEGATE_ORACLE_TIMEOUT", envKey("oracle-timeout"))
}

func TestCompileSkipsExistingBundle(t *testing.T) {
	dir := t.TempDir()
	for _, ext := range []string{"ccs", "pk", "vk"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "age-1."+ext), []byte("x"), 0644))
	}

	out, err := run(t, "compile", "-o", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")
}
