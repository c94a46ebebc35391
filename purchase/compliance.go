package purchase

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Vaios0x/TickMini-sub000/models"
)

// Compliance gate states, linear with no cycles back except explicit retry.
const (
	StateFeeDisclosure = "FEE_DISCLOSURE"
	StateKYC           = "KYC"
	StateBiometric     = "BIOMETRIC"
	StateApproved      = "APPROVED"
	StateRejected      = "REJECTED"
)

// KYC level amount thresholds, in the deployment's pricing unit.
var (
	kycBasicMax    = decimal.NewFromInt(500)
	kycAdvancedMax = decimal.NewFromInt(3000)
)

// biometricCutoff is the regulatory date after which every purchase needs
// biometric verification regardless of amount.
var biometricCutoff = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

// ComplianceGate walks FeeDisclosure → KYC → (Biometric) → Approved for one
// purchase attempt. Whether Biometric is mandatory is re-evaluated per
// attempt from the amount and the current date, never cached from startup.
type ComplianceGate struct {
	amount decimal.Decimal
	now    func() time.Time

	state  string
	result models.ComplianceResult
}

// NewComplianceGate builds a gate for one purchase amount in pricing units.
// now is injectable for tests; nil means time.Now.
func NewComplianceGate(amount decimal.Decimal, now func() time.Time) *ComplianceGate {
	if now == nil {
		now = time.Now
	}
	g := &ComplianceGate{
		amount: amount,
		now:    now,
		state:  StateFeeDisclosure,
	}
	g.result.KYCLevel = KYCLevelFor(amount)
	return g
}

// KYCLevelFor selects the verification depth from the transaction amount.
func KYCLevelFor(amount decimal.Decimal) string {
	switch {
	case amount.LessThan(kycBasicMax):
		return models.KYCLevelBasic
	case amount.LessThan(kycAdvancedMax):
		return models.KYCLevelAdvanced
	default:
		return models.KYCLevelEnhanced
	}
}

// BiometricRequired reports whether the Biometric state is mandatory for
// this attempt: enhanced-level amounts always need it, and every amount
// needs it on or after the regulatory cutoff date.
func (g *ComplianceGate) BiometricRequired() bool {
	if g.result.KYCLevel == models.KYCLevelEnhanced {
		return true
	}
	return !g.now().Before(biometricCutoff)
}

// State returns the gate's current state.
func (g *ComplianceGate) State() string {
	return g.state
}

// CompleteFeeDisclosure records the fee disclosure outcome.
func (g *ComplianceGate) CompleteFeeDisclosure(accepted bool) error {
	if g.state != StateFeeDisclosure {
		return fmt.Errorf("compliance: fee disclosure completed in state %s", g.state)
	}
	g.result.FeeDisclosureAccepted = accepted
	if !accepted {
		g.state = StateRejected
		return nil
	}
	g.state = StateKYC
	return nil
}

// CompleteKYC records the KYC outcome and advances to Biometric or
// Approved depending on what this attempt requires.
func (g *ComplianceGate) CompleteKYC(verified bool) error {
	if g.state != StateKYC {
		return fmt.Errorf("compliance: KYC completed in state %s", g.state)
	}
	g.result.KYCVerified = verified
	if !verified {
		g.state = StateRejected
		return nil
	}
	if g.BiometricRequired() {
		g.state = StateBiometric
		return nil
	}
	g.approve()
	return nil
}

// CompleteBiometric records the biometric outcome.
func (g *ComplianceGate) CompleteBiometric(verified bool) error {
	if g.state != StateBiometric {
		return fmt.Errorf("compliance: biometric completed in state %s", g.state)
	}
	g.result.BiometricVerified = verified
	if !verified {
		g.state = StateRejected
		return nil
	}
	g.approve()
	return nil
}

func (g *ComplianceGate) approve() {
	g.state = StateApproved
	g.result.Approved = true
}

// Retry resets the gate to the start of the flow, discarding the partial
// result.
func (g *ComplianceGate) Retry() {
	level := g.result.KYCLevel
	g.result = models.ComplianceResult{KYCLevel: level}
	g.state = StateFeeDisclosure
}

// Result returns the gate's output for the orchestrator. Approved is true
// only when every sub-check mandatory for the computed level has passed.
func (g *ComplianceGate) Result() models.ComplianceResult {
	return g.result
}

// Evaluate runs the whole flow from a UI payload in one shot, the way the
// compliance UI posts its completion back.
func (g *ComplianceGate) Evaluate(payload models.CompliancePayload) models.ComplianceResult {
	if err := g.CompleteFeeDisclosure(payload.FeeDisclosureAccepted); err != nil {
		return g.result
	}
	if g.state == StateKYC {
		if err := g.CompleteKYC(payload.KYCVerified); err != nil {
			return g.result
		}
	}
	if g.state == StateBiometric {
		if err := g.CompleteBiometric(payload.BiometricVerified); err != nil {
			return g.result
		}
	}
	return g.result
}
