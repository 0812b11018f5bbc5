package common_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mynextid/zk-agegate/circuits/age"
	"github.com/mynextid/zk-agegate/common"
)

func TestSetupLoadProve(t *testing.T) {
	b := common.Bundle{Dir: t.TempDir(), Name: "age", Version: 1}
	assert.False(t, b.Exists())

	nbConstraints, err := common.SetupAndSave(&age.Circuit{}, b)
	require.NoError(t, err)
	assert.Greater(t, nbConstraints, 0)
	assert.True(t, b.Exists())

	setup, err := common.LoadSetup(b)
	require.NoError(t, err)

	proof, err := common.ProveAndVerify(age.NewAssignment(2000, 2026, 18), setup)
	require.NoError(t, err)
	require.Len(t, proof.PublicSignals, 3)
	assert.Equal(t, int64(1), proof.PublicSignals[0].Int64())
	assert.Equal(t, int64(2026), proof.PublicSignals[1].Int64())
	assert.Equal(t, int64(18), proof.PublicSignals[2].Int64())
	assert.NotEmpty(t, proof.Proof)

	tm := proof.Timings
	assert.Positive(t, tm.Prove)
	assert.Equal(t, tm.Witness+tm.Prove+tm.Verify, tm.Total())
}

func TestLoadSetupMissingBundle(t *testing.T) {
	_, err := common.LoadSetup(common.Bundle{Dir: t.TempDir(), Name: "age", Version: 1})
	assert.ErrorIs(t, err, common.ErrBundleNotFound)
}

func TestBundlePaths(t *testing.T) {
	b := common.Bundle{Dir: "setup", Name: "age", Version: 2}
	assert.Equal(t, "setup/age-2.ccs", b.CCSPath())
	assert.Equal(t, "setup/age-2.pk", b.PKPath())
	assert.Equal(t, "setup/age-2.vk", b.VKPath())
}
