package config

import (
	"os"
	"strconv"

	"carelink/internal/models"
)

// Fee and validity tables for credential applications. Defaults mirror the
// association's published schedule; all values are env-overridable so the
// schedule is configuration, not code.
const (
	defaultLicenseFee          = 2500.00
	defaultCertificationFee    = 1500.00
	defaultLicenseValidityM    = 12 // months
	defaultCertValidityM       = 24 // months
	defaultExpirySweepInterval = 60 // minutes
)

// CredentialFee returns the application fee for a credential kind in KES.
func CredentialFee(kind models.CredentialKind) float64 {
	switch kind {
	case models.KindCertification:
		return getEnvFloat("CERTIFICATION_FEE", defaultCertificationFee)
	default:
		return getEnvFloat("LICENSE_FEE", defaultLicenseFee)
	}
}

// ValidityMonths returns how long an approved credential remains valid.
func ValidityMonths(kind models.CredentialKind) int {
	switch kind {
	case models.KindCertification:
		return getEnvInt("CERTIFICATION_VALIDITY_MONTHS", defaultCertValidityM)
	default:
		return getEnvInt("LICENSE_VALIDITY_MONTHS", defaultLicenseValidityM)
	}
}

// ExpirySweepMinutes returns the background expiry sweep interval.
func ExpirySweepMinutes() int {
	return getEnvInt("EXPIRY_SWEEP_MINUTES", defaultExpirySweepInterval)
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}
