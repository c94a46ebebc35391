package purchase

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vaios0x/TickMini-sub000/models"
)

func beforeCutoff() time.Time {
	return time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
}

func afterCutoff() time.Time {
	return time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
}

func TestKYCLevelFor(t *testing.T) {
	cases := []struct {
		amount int64
		level  string
	}{
		{0, models.KYCLevelBasic},
		{499, models.KYCLevelBasic},
		{500, models.KYCLevelAdvanced},
		{2500, models.KYCLevelAdvanced},
		{2999, models.KYCLevelAdvanced},
		{3000, models.KYCLevelEnhanced},
		{3500, models.KYCLevelEnhanced},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.level, KYCLevelFor(decimal.NewFromInt(tc.amount)), "amount %d", tc.amount)
	}
}

func TestComplianceGate_AdvancedAmountSkipsBiometricBeforeCutoff(t *testing.T) {
	gate := NewComplianceGate(decimal.NewFromInt(2500), beforeCutoff)

	assert.Equal(t, models.KYCLevelAdvanced, gate.Result().KYCLevel)
	assert.False(t, gate.BiometricRequired())

	require.NoError(t, gate.CompleteFeeDisclosure(true))
	require.NoError(t, gate.CompleteKYC(true))

	result := gate.Result()
	assert.True(t, result.Approved)
	assert.Equal(t, StateApproved, gate.State())
	assert.False(t, result.BiometricVerified)
}

func TestComplianceGate_HighValueRequiresBiometricRegardlessOfDate(t *testing.T) {
	gate := NewComplianceGate(decimal.NewFromInt(3500), beforeCutoff)

	assert.Equal(t, models.KYCLevelEnhanced, gate.Result().KYCLevel)
	assert.True(t, gate.BiometricRequired())

	require.NoError(t, gate.CompleteFeeDisclosure(true))
	require.NoError(t, gate.CompleteKYC(true))
	assert.Equal(t, StateBiometric, gate.State())
	assert.False(t, gate.Result().Approved)

	require.NoError(t, gate.CompleteBiometric(true))
	assert.True(t, gate.Result().Approved)
}

func TestComplianceGate_CutoffDateForcesBiometricAtLowAmounts(t *testing.T) {
	gate := NewComplianceGate(decimal.NewFromInt(100), afterCutoff)

	assert.Equal(t, models.KYCLevelBasic, gate.Result().KYCLevel)
	assert.True(t, gate.BiometricRequired())
}

func TestComplianceGate_RejectionIsTerminalNotApproved(t *testing.T) {
	gate := NewComplianceGate(decimal.NewFromInt(100), beforeCutoff)

	require.NoError(t, gate.CompleteFeeDisclosure(true))
	require.NoError(t, gate.CompleteKYC(false))

	assert.Equal(t, StateRejected, gate.State())
	assert.False(t, gate.Result().Approved)

	// completing further steps out of order is an error, not a bypass
	assert.Error(t, gate.CompleteBiometric(true))
	assert.False(t, gate.Result().Approved)
}

func TestComplianceGate_RetryResetsPartialResult(t *testing.T) {
	gate := NewComplianceGate(decimal.NewFromInt(100), beforeCutoff)
	require.NoError(t, gate.CompleteFeeDisclosure(false))
	assert.Equal(t, StateRejected, gate.State())

	gate.Retry()
	assert.Equal(t, StateFeeDisclosure, gate.State())
	assert.False(t, gate.Result().FeeDisclosureAccepted)

	require.NoError(t, gate.CompleteFeeDisclosure(true))
	require.NoError(t, gate.CompleteKYC(true))
	assert.True(t, gate.Result().Approved)
}

func TestComplianceGate_EvaluatePayload(t *testing.T) {
	result := NewComplianceGate(decimal.NewFromInt(2500), beforeCutoff).Evaluate(models.CompliancePayload{
		FeeDisclosureAccepted: true,
		KYCVerified:           true,
	})
	assert.True(t, result.Approved)

	result = NewComplianceGate(decimal.NewFromInt(3500), beforeCutoff).Evaluate(models.CompliancePayload{
		FeeDisclosureAccepted: true,
		KYCVerified:           true,
		BiometricVerified:     false,
	})
	assert.False(t, result.Approved, "enhanced level without biometric must not approve")
}
