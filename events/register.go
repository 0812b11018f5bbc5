package events

import (
	"context"
	"fmt"
	"time"

	"github.com/mynextid/zk-agegate/models"
)

// DefaultRegisterDelay simulates the round trip of a registration
const DefaultRegisterDelay = 2 * time.Second

// Register simulates registering for an event. Nothing is stored.
func Register(ctx context.Context, e models.Event, delay time.Duration) (string, error) {
	if delay > 0 {
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-t.C:
		}
	}
	return fmt.Sprintf("Successfully registered for %s!", e.Title), nil
}

// Wallet is a link-out to a wallet provider
type Wallet struct {
	Name string
	URL  string
}

// Wallets lists the wallet link-outs
func Wallets() []Wallet {
	return []Wallet{
		{Name: "MetaMask", URL: "https://metamask.io/"},
		{Name: "WalletConnect", URL: "https://walletconnect.com/"},
		{Name: "Coinbase Wallet", URL: "https://www.coinbase.com/wallet"},
	}
}
