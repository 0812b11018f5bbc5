package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mynextid/zk-agegate/events"
	"github.com/mynextid/zk-agegate/models"
)

func TestRegister(t *testing.T) {
	msg, err := events.Register(context.Background(), models.Event{Title: "DeFi Summit 2024"}, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, "Successfully registered for DeFi Summit 2024!", msg)
}

func TestRegisterCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := events.Register(ctx, models.Event{Title: "x"}, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWallets(t *testing.T) {
	w := events.Wallets()
	require.Len(t, w, 3)
	assert.Equal(t, "MetaMask", w[0].Name)
	assert.Equal(t, "https://walletconnect.com/", w[1].URL)
	assert.Equal(t, "https://www.coinbase.com/wallet", w[2].URL)
}
