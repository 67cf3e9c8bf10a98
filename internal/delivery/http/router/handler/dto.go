package handler

import (
	"encoding/base64"
	"time"

	"careid/internal/domain/entity"
	"careid/internal/usecase"
)

// --- Request payloads ---

type degreePayload struct {
	Name           string `json:"name" validate:"required"`
	Institute      string `json:"institute"`
	Country        string `json:"country"`
	EnrollmentYear int    `json:"enrollmentYear"`
	PassingYear    int    `json:"passingYear"`
}

type providerProfilePayload struct {
	Phone            string          `json:"phone" validate:"omitempty,phone"`
	LicenseNumber    string          `json:"licenseNumber"`
	NationalID       string          `json:"nationalId"`
	PassportNo       string          `json:"passportNo"`
	Type             int             `json:"type"`
	Department       int             `json:"department"`
	Designation      string          `json:"designation"`
	Description      string          `json:"description"`
	Address          string          `json:"address"`
	Latitude         *float64        `json:"latitude" validate:"omitempty,latitude"`
	Longitude        *float64        `json:"longitude" validate:"omitempty,longitude"`
	Image            string          `json:"image"` // base64-encoded
	ImageContentType string          `json:"imageContentType"`
	Degrees          []degreePayload `json:"degrees" validate:"dive"`
}

type subjectProfilePayload struct {
	Phone            string     `json:"phone" validate:"omitempty,phone"`
	Sex              string     `json:"sex"`
	BirthTimestamp   *time.Time `json:"birthTimestamp"`
	BloodGroup       string     `json:"bloodGroup"`
	WeightInKG       float64    `json:"weightInKg"`
	HeightInInch     float64    `json:"heightInInch"`
	Address          string     `json:"address"`
	Latitude         *float64   `json:"latitude" validate:"omitempty,latitude"`
	Longitude        *float64   `json:"longitude" validate:"omitempty,longitude"`
	Image            string     `json:"image"` // base64-encoded
	ImageContentType string     `json:"imageContentType"`
}

type registerRequest struct {
	Login     string `json:"login" validate:"required,min=1,max=50,login"`
	Email     string `json:"email" validate:"required,email,max=191"`
	Password  string `json:"password" validate:"required,min=4,max=100"`
	FirstName string `json:"firstName" validate:"max=50"`
	LastName  string `json:"lastName" validate:"max=50"`
	LangKey   string `json:"langKey" validate:"max=10"`
	ImageURL  string `json:"imageUrl" validate:"max=256"`

	Authorities []string                `json:"authorities"`
	Provider    *providerProfilePayload `json:"provider"`
	Subject     *subjectProfilePayload  `json:"subject"`
}

type updateAccountRequest struct {
	FirstName string `json:"firstName" validate:"max=50"`
	LastName  string `json:"lastName" validate:"max=50"`
	Email     string `json:"email" validate:"required,email,max=191"`
	LangKey   string `json:"langKey" validate:"max=10"`
	ImageURL  string `json:"imageUrl" validate:"max=256"`

	Provider *providerProfilePayload `json:"provider"`
	Subject  *subjectProfilePayload  `json:"subject"`
}

type resetPasswordInitRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordFinishRequest struct {
	Key         string `json:"key" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=4,max=100"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=4,max=100"`
}

type createUserRequest struct {
	Login       string   `json:"login" validate:"required,min=1,max=50,login"`
	Email       string   `json:"email" validate:"required,email,max=191"`
	FirstName   string   `json:"firstName" validate:"max=50"`
	LastName    string   `json:"lastName" validate:"max=50"`
	LangKey     string   `json:"langKey" validate:"max=10"`
	ImageURL    string   `json:"imageUrl" validate:"max=256"`
	Authorities []string `json:"authorities"`
}

type updateUserRequest struct {
	Login       *string  `json:"login" validate:"omitempty,min=1,max=50,login"`
	Email       *string  `json:"email" validate:"omitempty,email,max=191"`
	FirstName   *string  `json:"firstName" validate:"omitempty,max=50"`
	LastName    *string  `json:"lastName" validate:"omitempty,max=50"`
	LangKey     *string  `json:"langKey" validate:"omitempty,max=10"`
	ImageURL    *string  `json:"imageUrl" validate:"omitempty,max=256"`
	Activated   *bool    `json:"activated"`
	Authorities []string `json:"authorities"`
}

func (p *providerProfilePayload) toInput() *usecase.ProviderProfileInput {
	if p == nil {
		return nil
	}

	degrees := make([]usecase.DegreeInput, len(p.Degrees))
	for i, d := range p.Degrees {
		degrees[i] = usecase.DegreeInput(d)
	}

	return &usecase.ProviderProfileInput{
		Phone:            p.Phone,
		LicenseNumber:    p.LicenseNumber,
		NationalID:       p.NationalID,
		PassportNo:       p.PassportNo,
		Type:             p.Type,
		Department:       p.Department,
		Designation:      p.Designation,
		Description:      p.Description,
		Address:          p.Address,
		Latitude:         p.Latitude,
		Longitude:        p.Longitude,
		Image:            decodeImage(p.Image),
		ImageContentType: p.ImageContentType,
		Degrees:          degrees,
	}
}

func (p *subjectProfilePayload) toInput() *usecase.SubjectProfileInput {
	if p == nil {
		return nil
	}

	return &usecase.SubjectProfileInput{
		Phone:            p.Phone,
		Sex:              p.Sex,
		BirthTimestamp:   p.BirthTimestamp,
		BloodGroup:       p.BloodGroup,
		WeightInKG:       p.WeightInKG,
		HeightInInch:     p.HeightInInch,
		Address:          p.Address,
		Latitude:         p.Latitude,
		Longitude:        p.Longitude,
		Image:            decodeImage(p.Image),
		ImageContentType: p.ImageContentType,
	}
}

// decodeImage tolerates an invalid base64 payload by dropping the image
// rather than failing the whole request.
func decodeImage(encoded string) []byte {
	if encoded == "" {
		return nil
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil
	}

	return raw
}

// --- Response views ---

// degreeView mirrors one credential on a provider profile.
type degreeView struct {
	Name           string `json:"name"`
	Institute      string `json:"institute,omitempty"`
	Country        string `json:"country,omitempty"`
	EnrollmentYear int    `json:"enrollmentYear,omitempty"`
	PassingYear    int    `json:"passingYear,omitempty"`
}

type providerProfileView struct {
	Phone         string       `json:"phone,omitempty"`
	LicenseNumber string       `json:"licenseNumber"`
	NationalID    string       `json:"nationalId,omitempty"`
	PassportNo    string       `json:"passportNo,omitempty"`
	Type          int          `json:"type,omitempty"`
	Department    int          `json:"department,omitempty"`
	Designation   string       `json:"designation,omitempty"`
	Description   string       `json:"description,omitempty"`
	Address       string       `json:"address,omitempty"`
	Latitude      *float64     `json:"latitude,omitempty"`
	Longitude     *float64     `json:"longitude,omitempty"`
	Degrees       []degreeView `json:"degrees,omitempty"`
}

type subjectProfileView struct {
	Phone          string     `json:"phone,omitempty"`
	Sex            string     `json:"sex,omitempty"`
	BirthTimestamp *time.Time `json:"birthTimestamp,omitempty"`
	BloodGroup     string     `json:"bloodGroup,omitempty"`
	WeightInKG     float64    `json:"weightInKg,omitempty"`
	HeightInInch   float64    `json:"heightInInch,omitempty"`
	Address        string     `json:"address,omitempty"`
	Latitude       *float64   `json:"latitude,omitempty"`
	Longitude      *float64   `json:"longitude,omitempty"`
}

// userView is the transport shape of an account. Credential and key material
// never appears here.
type userView struct {
	ID          string    `json:"id"`
	Login       string    `json:"login"`
	Email       string    `json:"email"`
	FirstName   string    `json:"firstName,omitempty"`
	LastName    string    `json:"lastName,omitempty"`
	LangKey     string    `json:"langKey,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Activated   bool      `json:"activated"`
	Authorities []string  `json:"authorities"`
	CreatedBy   string    `json:"createdBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`

	Provider *providerProfileView `json:"provider,omitempty"`
	Subject  *subjectProfileView  `json:"subject,omitempty"`
}

type registerView struct {
	User userView `json:"user"`
	// PNG QR code encoding the activation link, base64-encoded by JSON.
	ActivationQR []byte `json:"activationQr,omitempty"`
}

type userPageView struct {
	Users []userView `json:"users"`
	Total int64      `json:"total"`
	Page  int        `json:"page"`
	Size  int        `json:"size"`
}

func toUserView(user *entity.User) userView {
	view := userView{
		ID:          user.ID.String(),
		Login:       user.Login,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		LangKey:     user.LangKey,
		ImageURL:    user.ImageURL,
		Activated:   user.Activated,
		Authorities: user.Authorities.ToStrings(),
		CreatedBy:   user.CreatedBy,
		CreatedAt:   user.CreatedAt,
	}

	if user.Provider != nil {
		view.Provider = toProviderView(user.Provider)
	}
	if user.Subject != nil {
		view.Subject = toSubjectView(user.Subject)
	}

	return view
}

func toProviderView(profile *entity.ProviderProfile) *providerProfileView {
	degrees := make([]degreeView, len(profile.Degrees))
	for i, d := range profile.Degrees {
		degrees[i] = degreeView(d)
	}

	view := &providerProfileView{
		Phone:         profile.Phone,
		LicenseNumber: profile.LicenseNumber,
		NationalID:    profile.NationalID,
		PassportNo:    profile.PassportNo,
		Type:          profile.Type,
		Department:    profile.Department,
		Designation:   profile.Designation,
		Description:   profile.Description,
		Address:       profile.Address,
		Degrees:       degrees,
	}
	if profile.Location != nil {
		lat, lon := profile.Location.Lat(), profile.Location.Lon()
		view.Latitude, view.Longitude = &lat, &lon
	}

	return view
}

func toSubjectView(profile *entity.SubjectProfile) *subjectProfileView {
	view := &subjectProfileView{
		Phone:          profile.Phone,
		Sex:            string(profile.Sex),
		BirthTimestamp: profile.BirthTimestamp,
		BloodGroup:     string(profile.BloodGroup),
		WeightInKG:     profile.WeightInKG,
		HeightInInch:   profile.HeightInInch,
		Address:        profile.Address,
	}
	if profile.Location != nil {
		lat, lon := profile.Location.Lat(), profile.Location.Lon()
		view.Latitude, view.Longitude = &lat, &lon
	}

	return view
}
