package models

// KYC levels selected by transaction amount thresholds
const (
	KYCLevelBasic    = "basic"
	KYCLevelAdvanced = "advanced"
	KYCLevelEnhanced = "enhanced"
)

// ComplianceResult is the output of the compliance gate for one purchase
// attempt. It is created per attempt and discarded after the attempt
// resolves; it is never persisted.
type ComplianceResult struct {
	KYCLevel              string `json:"kyc_level"`
	KYCVerified           bool   `json:"kyc_verified"`
	FeeDisclosureAccepted bool   `json:"fee_disclosure_accepted"`
	BiometricVerified     bool   `json:"biometric_verified"`
	Approved              bool   `json:"approved"`
}

// CompliancePayload is what the compliance UI posts back when its flow
// completes.
type CompliancePayload struct {
	FeeDisclosureAccepted bool `json:"fee_disclosure_accepted"`
	KYCVerified           bool `json:"kyc_verified"`
	BiometricVerified     bool `json:"biometric_verified"`
}
