package models

import "time"

// Credential status values shared by licenses and certifications.
// Lifecycle: pending -> approved|rejected, approved -> expired.
// rejected and expired are terminal; renewal means a brand-new row.
const (
	CredentialPending  = "pending"
	CredentialApproved = "approved"
	CredentialRejected = "rejected"
	CredentialExpired  = "expired"
)

// CredentialKind selects which credential table an operation targets.
type CredentialKind string

const (
	KindLicense       CredentialKind = "license"
	KindCertification CredentialKind = "certification"
)

// EffectiveStatus reports the status a credential should present to readers:
// an approved credential past its expiry date reads as expired even if the
// sweeper has not caught up with the row yet.
func EffectiveStatus(status string, expiryDate *time.Time, now time.Time) string {
	if status == CredentialApproved && expiryDate != nil && now.After(*expiryDate) {
		return CredentialExpired
	}
	return status
}
