package claims

import "strings"

// Record is a claim summary as supplied by the surrounding application.
// Only ID, IPAddress and PhoneNumber shape the graph; every other field is
// carried through untouched as display payload.
type Record struct {
	ID          string `json:"id" yaml:"id"`
	IPAddress   string `json:"ip_address,omitempty" yaml:"ip_address,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty" yaml:"phone_number,omitempty"`

	PolicyNumber      string   `json:"policy_number,omitempty" yaml:"policy_number,omitempty"`
	ClaimantName      string   `json:"claimant_name,omitempty" yaml:"claimant_name,omitempty"`
	Type              string   `json:"type,omitempty" yaml:"type,omitempty"`
	Amount            float64  `json:"amount,omitempty" yaml:"amount,omitempty"`
	Status            string   `json:"status,omitempty" yaml:"status,omitempty"`
	RiskScore         int      `json:"risk_score,omitempty" yaml:"risk_score,omitempty"`
	RiskLevel         string   `json:"risk_level,omitempty" yaml:"risk_level,omitempty"`
	FraudScore        *float64 `json:"fraud_score,omitempty" yaml:"fraud_score,omitempty"`
	DeviceFingerprint string   `json:"device_fingerprint,omitempty" yaml:"device_fingerprint,omitempty"`
}

// HasIP reports whether the record carries a usable IP address.
func (r Record) HasIP() bool {
	return !IsBlank(r.IPAddress)
}

// HasPhone reports whether the record carries a usable phone number.
func (r Record) HasPhone() bool {
	return !IsBlank(r.PhoneNumber)
}

// Label returns a short human readable name for the claim.
func (r Record) Label() string {
	if r.ClaimantName != "" {
		return r.ID + " (" + r.ClaimantName + ")"
	}
	return r.ID
}

// IsBlank reports whether an identifier is empty or whitespace only.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
