package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via uuid_generate_v7().
// Login and email are stored lower-case; the unique indexes are the backstop
// against concurrent registrations racing past the application-level checks.
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Login        string    `gorm:"type:varchar(50);unique;not null"`
	Email        string    `gorm:"type:varchar(191);unique;not null"`
	PasswordHash string    `gorm:"type:varchar(60);not null"`

	FirstName string `gorm:"type:varchar(50)"`
	LastName  string `gorm:"type:varchar(50)"`
	ImageURL  string `gorm:"type:varchar(256)"`
	LangKey   string `gorm:"type:varchar(10)"`

	Activated     bool       `gorm:"not null"`
	ActivationKey string     `gorm:"type:varchar(20);index"`
	ResetKey      string     `gorm:"type:varchar(20);index"`
	ResetDate     *time.Time

	CreatedBy      string `gorm:"type:varchar(50)"`
	CreatedAt      time.Time `gorm:"index"`
	LastModifiedBy string `gorm:"type:varchar(50)"`
	UpdatedAt      time.Time

	Authorities []AuthorityModel      `gorm:"many2many:user_authorities"`
	Provider    *ProviderProfileModel `gorm:"foreignKey:UserID"`
	Subject     *SubjectProfileModel  `gorm:"foreignKey:UserID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// AuthorityModel mirrors the 'authorities' reference table.
type AuthorityModel struct {
	Name string `gorm:"type:varchar(50);primaryKey"`
}

// TableName explicitly sets the table name for GORM.
func (AuthorityModel) TableName() string {
	return "authorities"
}

// ProviderProfileModel mirrors the 'provider_profiles' table. UserID references users.id (UUID).
// License uniqueness among activated owners is arbitrated by the registration
// flow, so the column carries a plain index rather than a unique one.
type ProviderProfileModel struct {
	UserID           uuid.UUID `gorm:"primaryKey"`
	Phone            string    `gorm:"type:varchar(32)"`
	LicenseNumber    string    `gorm:"type:varchar(20);not null;index"`
	NationalID       string    `gorm:"type:varchar(32)"`
	PassportNo       string    `gorm:"type:varchar(32)"`
	Type             int
	Department       int
	Designation      string `gorm:"type:varchar(100)"`
	Description      string `gorm:"type:text"`
	Address          string `gorm:"type:varchar(256)"`
	Latitude         *float64
	Longitude        *float64
	Image            []byte `gorm:"type:bytea"`
	ImageContentType string `gorm:"type:varchar(64)"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Degrees []DegreeModel `gorm:"foreignKey:ProviderUserID"`
}

// TableName explicitly sets the table name for GORM.
func (ProviderProfileModel) TableName() string {
	return "provider_profiles"
}

// DegreeModel mirrors the 'degrees' table, one row per provider credential.
type DegreeModel struct {
	ID             int64     `gorm:"primaryKey;autoIncrement"`
	ProviderUserID uuid.UUID `gorm:"type:uuid;index;not null"`
	Name           string    `gorm:"type:varchar(100);not null"`
	Institute      string    `gorm:"type:varchar(100)"`
	Country        string    `gorm:"type:varchar(64)"`
	EnrollmentYear int
	PassingYear    int
}

// TableName explicitly sets the table name for GORM.
func (DegreeModel) TableName() string {
	return "degrees"
}

// SubjectProfileModel mirrors the 'subject_profiles' table. UserID references users.id (UUID).
type SubjectProfileModel struct {
	UserID           uuid.UUID `gorm:"primaryKey"`
	Phone            string    `gorm:"type:varchar(32)"`
	Sex              string    `gorm:"type:varchar(10)"`
	BirthTimestamp   *time.Time
	BloodGroup       string `gorm:"type:varchar(12)"`
	WeightInKG       float64
	HeightInInch     float64
	Address          string `gorm:"type:varchar(256)"`
	Latitude         *float64
	Longitude        *float64
	Image            []byte `gorm:"type:bytea"`
	ImageContentType string `gorm:"type:varchar(64)"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName explicitly sets the table name for GORM.
func (SubjectProfileModel) TableName() string {
	return "subject_profiles"
}
