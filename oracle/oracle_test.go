package oracle_test

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mynextid/zk-agegate/common"
	"github.com/mynextid/zk-agegate/oracle"
)

func fixedClock() time.Time {
	return time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)
}

func compiledDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	compiled, nb, err := oracle.Compile(dir, false)
	require.NoError(t, err)
	require.True(t, compiled)
	require.Greater(t, nb, 0)
	return dir
}

func TestSignal(t *testing.T) {
	eligible, err := oracle.Signal(&oracle.Result{PublicSignals: []*big.Int{big.NewInt(1)}})
	require.NoError(t, err)
	assert.True(t, eligible)

	eligible, err = oracle.Signal(&oracle.Result{PublicSignals: []*big.Int{big.NewInt(0), big.NewInt(2026)}})
	require.NoError(t, err)
	assert.False(t, eligible)

	_, err = oracle.Signal(&oracle.Result{PublicSignals: []*big.Int{big.NewInt(2)}})
	assert.ErrorIs(t, err, oracle.ErrInvalidSignal)

	_, err = oracle.Signal(&oracle.Result{PublicSignals: []*big.Int{big.NewInt(-1)}})
	assert.ErrorIs(t, err, oracle.ErrInvalidSignal)

	_, err = oracle.Signal(&oracle.Result{})
	assert.ErrorIs(t, err, oracle.ErrInvalidSignal)

	_, err = oracle.Signal(nil)
	assert.ErrorIs(t, err, oracle.ErrInvalidSignal)
}

func TestCompileKeepsExistingBundle(t *testing.T) {
	dir := compiledDir(t)

	compiled, _, err := oracle.Compile(dir, false)
	require.NoError(t, err)
	assert.False(t, compiled, "existing bundle must not be overwritten without force")

	compiled, _, err = oracle.Compile(dir, true)
	require.NoError(t, err)
	assert.True(t, compiled)
}

func TestGroth16Verify(t *testing.T) {
	dir := compiledDir(t)
	o := oracle.NewGroth16(oracle.WithClock(fixedClock))
	ctx := context.Background()

	t.Run("adult", func(t *testing.T) {
		res, err := o.Verify(ctx, oracle.Input{BirthYear: 2006}, dir)
		require.NoError(t, err)
		require.Len(t, res.PublicSignals, 3)
		assert.Equal(t, int64(1), res.PublicSignals[0].Int64())
		assert.Equal(t, int64(2026), res.PublicSignals[1].Int64())
		assert.Equal(t, int64(18), res.PublicSignals[2].Int64())
		assert.NotEmpty(t, res.Proof)
		assert.Positive(t, res.Duration)
	})

	t.Run("minor", func(t *testing.T) {
		res, err := o.Verify(ctx, oracle.Input{BirthYear: 2016}, dir)
		require.NoError(t, err)
		eligible, err := oracle.Signal(res)
		require.NoError(t, err)
		assert.False(t, eligible)
	})

	t.Run("future birth year", func(t *testing.T) {
		res, err := o.Verify(ctx, oracle.Input{BirthYear: 2031}, dir)
		require.NoError(t, err)
		eligible, err := oracle.Signal(res)
		require.NoError(t, err)
		assert.False(t, eligible)
	})

	t.Run("deterministic signal", func(t *testing.T) {
		first, err := o.Verify(ctx, oracle.Input{BirthYear: 1990}, dir)
		require.NoError(t, err)
		second, err := o.Verify(ctx, oracle.Input{BirthYear: 1990}, dir)
		require.NoError(t, err)
		assert.Equal(t, first.PublicSignals[0].String(), second.PublicSignals[0].String())
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := o.Verify(ctx, oracle.Input{BirthYear: -1}, dir)
		assert.ErrorIs(t, err, oracle.ErrBirthYearOutOfRange)
	})

	info := o.Info(dir)
	assert.True(t, info.Loaded)
	assert.Greater(t, info.Constraints, 0)
}

func TestGroth16MinAge(t *testing.T) {
	dir := compiledDir(t)
	o := oracle.NewGroth16(oracle.WithClock(fixedClock), oracle.WithMinAge(21))

	res, err := o.Verify(context.Background(), oracle.Input{BirthYear: 2006}, dir)
	require.NoError(t, err)
	eligible, err := oracle.Signal(res)
	require.NoError(t, err)
	assert.False(t, eligible, "twenty is under a threshold of 21")
}

func TestGroth16MissingBundle(t *testing.T) {
	o := oracle.NewGroth16()
	_, err := o.Verify(context.Background(), oracle.Input{BirthYear: 2000}, t.TempDir())
	assert.ErrorIs(t, err, common.ErrBundleNotFound)
	assert.False(t, o.Info(t.TempDir()).Loaded)
}

func TestGroth16CancelledContext(t *testing.T) {
	dir := compiledDir(t)
	o := oracle.NewGroth16(oracle.WithClock(fixedClock))
	_, err := o.Load(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := o.Verify(ctx, oracle.Input{BirthYear: 2000}, dir)
	if err == nil {
		// the prover may win the race against the cancelled context
		require.NotNil(t, res)
		return
	}
	assert.ErrorIs(t, err, context.Canceled)
}
