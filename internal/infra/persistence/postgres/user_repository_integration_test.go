package postgres

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"careid/internal/domain/entity"
	"careid/internal/domain/repository"
	"careid/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// openTestDB connects to the database named by CAREID_TEST_DATABASE_DSN and
// migrates the schema. Tests built on it are skipped when the variable is
// unset, so the package still passes in environments without a server.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("CAREID_TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("CAREID_TEST_DATABASE_DSN not set")
	}

	db, err := gorm.Open(pgdriver.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	// The users.id column default references uuid_generate_v7, which plain
	// servers do not ship. The tests assign IDs themselves, so any
	// uuid-returning body satisfies the DDL.
	require.NoError(t, db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error)
	require.NoError(t, db.Exec(
		`CREATE OR REPLACE FUNCTION uuid_generate_v7() RETURNS uuid AS $$ SELECT gen_random_uuid() $$ LANGUAGE sql`,
	).Error)

	require.NoError(t, db.AutoMigrate(
		&model.AuthorityModel{},
		&model.UserModel{},
		&model.ProviderProfileModel{},
		&model.DegreeModel{},
		&model.SubjectProfileModel{},
	))

	return db
}

func newProviderUser(degrees ...string) *entity.User {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
	id := uuid.New()

	degreeSet := make([]entity.Degree, 0, len(degrees))
	for _, name := range degrees {
		degreeSet = append(degreeSet, entity.Degree{Name: name, Institute: "Institute"})
	}

	return &entity.User{
		ID:           id,
		Login:        "provider" + suffix,
		Email:        fmt.Sprintf("provider%s@example.com", suffix),
		PasswordHash: "hash",
		Activated:    true,
		Authorities:  entity.AuthoritiesFromStrings([]string{"ROLE_USER", "ROLE_PROVIDER"}),
		Provider: &entity.ProviderProfile{
			UserID:        id,
			LicenseNumber: "LIC-" + suffix,
			Degrees:       degreeSet,
		},
	}
}

func degreeNames(profile *entity.ProviderProfile) []string {
	names := make([]string, 0, len(profile.Degrees))
	for _, degree := range profile.Degrees {
		names = append(names, degree.Name)
	}

	return names
}

func TestUserRepositoryUpdate_ReplacesDegreeRows(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := newProviderUser("MBBS", "FCPS")
	require.NoError(t, repo.Create(ctx, user))
	t.Cleanup(func() { _ = repo.Delete(context.Background(), user) })

	stored, err := repo.FindByLogin(ctx, user.Login)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"MBBS", "FCPS"}, degreeNames(stored.Provider))

	stored.Provider.Degrees = []entity.Degree{{Name: "MD", Institute: "Institute"}}
	require.NoError(t, repo.Update(ctx, stored))

	reloaded, err := repo.FindByLogin(ctx, user.Login)
	require.NoError(t, err)
	assert.Equal(t, []string{"MD"}, degreeNames(reloaded.Provider))

	// A repeated submission of the same set must not insert duplicates.
	require.NoError(t, repo.Update(ctx, reloaded))

	var count int64
	require.NoError(t, db.Model(&model.DegreeModel{}).
		Where("provider_user_id = ?", user.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUserRepositoryUpdate_ScalarUpdateKeepsDegreeRows(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := newProviderUser("MBBS")
	require.NoError(t, repo.Create(ctx, user))
	t.Cleanup(func() { _ = repo.Delete(context.Background(), user) })

	stored, err := repo.FindByLogin(ctx, user.Login)
	require.NoError(t, err)

	stored.FirstName = "Renamed"
	require.NoError(t, repo.Update(ctx, stored))

	reloaded, err := repo.FindByLogin(ctx, user.Login)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", reloaded.FirstName)
	assert.Equal(t, []string{"MBBS"}, degreeNames(reloaded.Provider))
}

func TestUserRepositoryUpdate_ReplacesAuthorityRows(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := newProviderUser()
	require.NoError(t, repo.Create(ctx, user))
	t.Cleanup(func() { _ = repo.Delete(context.Background(), user) })

	stored, err := repo.FindByLogin(ctx, user.Login)
	require.NoError(t, err)

	stored.Authorities = entity.AuthoritiesFromStrings([]string{"ROLE_USER"})
	require.NoError(t, repo.Update(ctx, stored))

	reloaded, err := repo.FindByLogin(ctx, user.Login)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"ROLE_USER"}, reloaded.Authorities.ToStrings())
}

func TestUserRepositoryDelete_RemovesAssociatedRows(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := newProviderUser("MBBS", "FCPS")
	require.NoError(t, repo.Create(ctx, user))

	require.NoError(t, repo.Delete(ctx, user))

	_, err := repo.FindByLogin(ctx, user.Login)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	var degreeCount int64
	require.NoError(t, db.Model(&model.DegreeModel{}).
		Where("provider_user_id = ?", user.ID).
		Count(&degreeCount).Error)
	assert.Zero(t, degreeCount)

	var profileCount int64
	require.NoError(t, db.Model(&model.ProviderProfileModel{}).
		Where("user_id = ?", user.ID).
		Count(&profileCount).Error)
	assert.Zero(t, profileCount)

	// Deleting a user that is already gone stays a no-op.
	require.NoError(t, repo.Delete(ctx, user))
}
