// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// ProviderProfile holds data specific to the provider (practitioner) role.
// Exactly one exists per provider account, created with the User during
// registration or lazily during first-time profile completion.
type ProviderProfile struct {
	UserID           uuid.UUID // Foreign key linking this profile to its User.
	Phone            string
	LicenseNumber    string // Unique among providers whose owning user is activated.
	NationalID       string
	PassportNo       string
	Type             int // Practitioner type/category code.
	Department       int // Medical department code.
	Designation      string
	Description      string
	Address          string
	Location         *orb.Point // Geographic point, nil when unknown.
	Image            []byte
	ImageContentType string
	Degrees          []Degree // Credential records; order carries no meaning.
	UpdatedAt        time.Time
}

// SubjectProfile holds data specific to the subject (patient) role.
type SubjectProfile struct {
	UserID           uuid.UUID
	Phone            string
	Sex              Sex
	BirthTimestamp   *time.Time
	BloodGroup       BloodGroup
	WeightInKG       float64
	HeightInInch     float64
	Address          string
	Location         *orb.Point
	Image            []byte
	ImageContentType string
	UpdatedAt        time.Time
}

// Degree is a single professional credential attached to a provider profile.
type Degree struct {
	Name           string
	Institute      string
	Country        string
	EnrollmentYear int
	PassingYear    int
}
