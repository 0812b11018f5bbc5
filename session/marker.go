// Package session holds the client-side record of a successful age
// verification and the navigation gate derived from it. The marker is a
// convenience for the client, not an access-control boundary.
package session

import (
	"time"
)

// Version of the persisted marker schema
const Version = 1

// DateLayout of Marker.DateOfBirth
const DateLayout = "2006-01-02"

// Marker is the persisted session marker
type Marker struct {
	Version          int    `json:"version"`
	AgeVerified      bool   `json:"ageVerified"`
	DateOfBirth      string `json:"dateOfBirth,omitempty"`
	VerificationDate string `json:"verificationDate,omitempty"`
	Attestation      string `json:"attestation,omitempty"`
}

// NewMarker builds the marker written after an eligible verification
func NewMarker(dob time.Time, verifiedAt time.Time, attestation string) Marker {
	return Marker{
		Version:          Version,
		AgeVerified:      true,
		DateOfBirth:      dob.Format(DateLayout),
		VerificationDate: verifiedAt.UTC().Format(time.RFC3339),
		Attestation:      attestation,
	}
}

// Verified reports whether the marker grants access to the event views
func (m Marker) Verified() bool {
	return m.AgeVerified
}

// Age is the number of full years between the stored date of birth and now.
// It is for display only and returns false when no valid date is stored.
func (m Marker) Age(now time.Time) (int, bool) {
	dob, err := time.Parse(DateLayout, m.DateOfBirth)
	if err != nil {
		return 0, false
	}
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return years, true
}
