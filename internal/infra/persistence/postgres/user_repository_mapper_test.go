package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careid/internal/domain/entity"
	"careid/internal/infra/persistence/model"
)

func TestFromUserDomain_ProviderMapping(t *testing.T) {
	userID := uuid.New()
	location := orb.Point{90.4125, 23.8103}

	user := &entity.User{
		ID:            userID,
		Login:         "drkarim",
		Email:         "karim@example.com",
		PasswordHash:  "$2a$10$hash",
		FirstName:     "Karim",
		Activated:     false,
		ActivationKey: "12345678901234567890",
		Authorities:   entity.Authorities{entity.AuthorityUser, entity.AuthorityProvider},
		Provider: &entity.ProviderProfile{
			UserID:        userID,
			LicenseNumber: "LIC-1234",
			Location:      &location,
			Degrees: []entity.Degree{
				{Name: "MBBS", Institute: "DMC", Country: "BD", PassingYear: 2010},
			},
		},
	}

	userM := fromUserDomain(user)
	require.NotNil(t, userM)
	assert.Equal(t, "drkarim", userM.Login)
	assert.Len(t, userM.Authorities, 2)
	require.NotNil(t, userM.Provider)
	assert.Equal(t, "LIC-1234", userM.Provider.LicenseNumber)
	require.NotNil(t, userM.Provider.Latitude)
	assert.InDelta(t, 23.8103, *userM.Provider.Latitude, 1e-9)
	require.NotNil(t, userM.Provider.Longitude)
	assert.InDelta(t, 90.4125, *userM.Provider.Longitude, 1e-9)
	require.Len(t, userM.Provider.Degrees, 1)
	assert.Equal(t, userID, userM.Provider.Degrees[0].ProviderUserID)
	assert.Nil(t, userM.Subject)
}

func TestToUserDomain_RoundTrip(t *testing.T) {
	userID := uuid.New()
	birth := time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)
	lat, lon := 23.8103, 90.4125

	userM := &model.UserModel{
		ID:           userID,
		Login:        "rahima",
		Email:        "rahima@example.com",
		PasswordHash: "$2a$10$hash",
		Activated:    true,
		Authorities: []model.AuthorityModel{
			{Name: "ROLE_USER"},
			{Name: "ROLE_SUBJECT"},
		},
		Subject: &model.SubjectProfileModel{
			UserID:         userID,
			Sex:            "FEMALE",
			BloodGroup:     "O_POSITIVE",
			BirthTimestamp: &birth,
			WeightInKG:     55,
			Latitude:       &lat,
			Longitude:      &lon,
		},
	}

	user := toUserDomain(userM)
	require.NotNil(t, user)
	assert.Equal(t, "rahima", user.Login)
	assert.True(t, user.Activated)
	assert.True(t, user.Authorities.Contains(entity.AuthoritySubject))
	assert.Equal(t, entity.ProfileKindSubject, user.Kind())
	require.NotNil(t, user.Subject)
	assert.Equal(t, entity.SexFemale, user.Subject.Sex)
	assert.Equal(t, entity.BloodGroupOPositive, user.Subject.BloodGroup)
	require.NotNil(t, user.Subject.Location)
	assert.InDelta(t, lat, user.Subject.Location.Lat(), 1e-9)
	assert.InDelta(t, lon, user.Subject.Location.Lon(), 1e-9)
}

func TestToUserDomain_DropsUnknownAuthorities(t *testing.T) {
	userM := &model.UserModel{
		ID:    uuid.New(),
		Login: "jdoe",
		Authorities: []model.AuthorityModel{
			{Name: "ROLE_USER"},
			{Name: "ROLE_BOGUS"},
		},
	}

	user := toUserDomain(userM)
	require.NotNil(t, user)
	assert.Len(t, user.Authorities, 1)
	assert.True(t, user.Authorities.Contains(entity.AuthorityUser))
}

func TestLocationMapping_NilSafe(t *testing.T) {
	assert.Nil(t, toLocationDomain(nil, nil))

	lat, lon := fromLocationDomain(nil)
	assert.Nil(t, lat)
	assert.Nil(t, lon)
}
