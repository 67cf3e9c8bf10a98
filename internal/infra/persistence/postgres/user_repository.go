// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"time"

	"careid/internal/domain/entity"
	domainerrors "careid/internal/domain/errors"
	"careid/internal/domain/repository"
	"careid/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// userRepository implements the domain.UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a domain.UserRepository interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// withAssociations attaches the preloads every read needs: the role profile
// on either side, provider credentials and the authority set.
func (repo *userRepository) withAssociations(ctx context.Context) *gorm.DB {
	return repo.db.WithContext(ctx).
		Preload("Authorities").
		Preload("Provider").
		Preload("Provider.Degrees").
		Preload("Subject")
}

// FindByID retrieves a single user by their unique ID, preloading the role profile and authorities.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var userM model.UserModel
	err := repo.withAssociations(ctx).
		Where("users.id = ?", id).
		First(&userM).Error
	if err != nil {
		// If the error is 'record not found', return a domain-specific error.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}
		// Otherwise, return the original database error.
		return nil, errors.Wrap(err, "failed to find user by id")
	}

	// Map the persistence model back to a pure domain entity before returning.
	return toUserDomain(&userM), nil
}

// FindByLogin retrieves a single user by their login.
func (repo *userRepository) FindByLogin(ctx context.Context, login string) (*entity.User, error) {
	var userM model.UserModel
	err := repo.withAssociations(ctx).
		Where("users.login = ?", login).
		First(&userM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by login")
	}

	return toUserDomain(&userM), nil
}

// FindByEmailIgnoreCase retrieves a single user by email, compared case-insensitively.
func (repo *userRepository) FindByEmailIgnoreCase(ctx context.Context, email string) (*entity.User, error) {
	var userM model.UserModel
	err := repo.withAssociations(ctx).
		Where("LOWER(users.email) = LOWER(?)", email).
		First(&userM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	return toUserDomain(&userM), nil
}

// FindByActivationKey retrieves the user holding the given activation key.
func (repo *userRepository) FindByActivationKey(ctx context.Context, key string) (*entity.User, error) {
	var userM model.UserModel
	err := repo.withAssociations(ctx).
		Where("users.activation_key = ?", key).
		First(&userM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by activation key")
	}

	return toUserDomain(&userM), nil
}

// FindByResetKey retrieves the user holding the given password reset key.
func (repo *userRepository) FindByResetKey(ctx context.Context, key string) (*entity.User, error) {
	var userM model.UserModel
	err := repo.withAssociations(ctx).
		Where("users.reset_key = ?", key).
		First(&userM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by reset key")
	}

	return toUserDomain(&userM), nil
}

// FindProviderByLicense retrieves the user owning a provider profile with the
// given license number. With activatedOnly set, only activated owners count.
func (repo *userRepository) FindProviderByLicense(ctx context.Context, license string, activatedOnly bool) (*entity.User, error) {
	query := repo.withAssociations(ctx).
		Joins("JOIN provider_profiles ON provider_profiles.user_id = users.id").
		Where("provider_profiles.license_number = ?", license)
	if activatedOnly {
		query = query.Where("users.activated = ?", true)
	}

	var userM model.UserModel
	if err := query.First(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find provider by license")
	}

	return toUserDomain(&userM), nil
}

// FindAllNotActivatedCreatedBefore lists every unactivated user created before the cutoff, oldest first.
func (repo *userRepository) FindAllNotActivatedCreatedBefore(ctx context.Context, cutoff time.Time) ([]*entity.User, error) {
	var userMs []*model.UserModel
	err := repo.withAssociations(ctx).
		Where("users.activated = ? AND users.created_at < ?", false, cutoff).
		Order("users.created_at ASC").
		Find(&userMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list not activated users")
	}

	users := make([]*entity.User, 0, len(userMs))
	for _, userM := range userMs {
		users = append(users, toUserDomain(userM))
	}

	return users, nil
}

// FindAllExcludingLogin pages through users, skipping the given reserved login.
func (repo *userRepository) FindAllExcludingLogin(ctx context.Context, excluded string, offset, limit int) ([]*entity.User, int64, error) {
	var total int64
	err := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("users.login <> ?", excluded).
		Count(&total).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to count users")
	}

	var userMs []*model.UserModel
	err = repo.withAssociations(ctx).
		Where("users.login <> ?", excluded).
		Order("users.login ASC").
		Offset(offset).
		Limit(limit).
		Find(&userMs).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list users")
	}

	users := make([]*entity.User, 0, len(userMs))
	for _, userM := range userMs {
		users = append(users, toUserDomain(userM))
	}

	return users, total, nil
}

// Create persists a new user entity, including its role profile and authorities.
// GORM's Create with associations inserts into users, the profile table and
// the authority join within the surrounding transaction.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			switch uniqueConstraintColumn(err) {
			case "login":
				return domainerrors.ErrLoginAlreadyUsed.WrapMessage("login already exists")
			case "email":
				return domainerrors.ErrEmailAlreadyUsed.WrapMessage("email already exists")
			default:
				return domainerrors.ErrConflict.WrapMessage("unique constraint violated")
			}
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrUserCreationFailed.WrapMessage("missing required user information")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserCreationFailed.WrapMessage("invalid foreign key reference")
		}
		// For other database errors, return a generic database error
		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	// Update the user entity with the generated ID and timestamps
	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt

	if user.Provider != nil && userM.Provider != nil {
		user.Provider.UserID = userM.Provider.UserID
		user.Provider.UpdatedAt = userM.Provider.UpdatedAt
	}
	if user.Subject != nil && userM.Subject != nil {
		user.Subject.UserID = userM.Subject.UserID
		user.Subject.UpdatedAt = userM.Subject.UpdatedAt
	}

	return nil
}

// Update modifies an existing user entity, including its role profile and authority set.
func (repo *userRepository) Update(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	// Degree rows carry no stable identity across updates, so the save below
	// re-inserts the submitted set. Clear the stored rows first or they
	// accumulate on every provider update.
	if userM.Provider != nil {
		if err := repo.db.WithContext(ctx).
			Where("provider_user_id = ?", user.ID).
			Delete(&model.DegreeModel{}).Error; err != nil {
			return domainerrors.NewDatabaseExecuteError(err, "failed to replace provider degrees")
		}
	}

	// Use Session with FullSaveAssociations to update nested associations
	if err := repo.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(userM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			switch uniqueConstraintColumn(err) {
			case "login":
				return domainerrors.ErrLoginAlreadyUsed.WrapMessage("login already exists")
			case "email":
				return domainerrors.ErrEmailAlreadyUsed.WrapMessage("email already exists")
			default:
				return domainerrors.ErrConflict.WrapMessage("unique constraint violated")
			}
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrUserUpdateFailed.WrapMessage("missing required user information")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserUpdateFailed.WrapMessage("invalid foreign key reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update user")
	}

	// FullSaveAssociations upserts but never unlinks, so replace the authority
	// set explicitly to honor downgrades.
	if err := repo.db.WithContext(ctx).
		Model(userM).
		Association("Authorities").
		Replace(userM.Authorities); err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to replace user authorities")
	}

	user.UpdatedAt = userM.UpdatedAt
	if user.Provider != nil && userM.Provider != nil {
		user.Provider.UpdatedAt = userM.Provider.UpdatedAt
	}
	if user.Subject != nil && userM.Subject != nil {
		user.Subject.UpdatedAt = userM.Subject.UpdatedAt
	}

	return nil
}

// Delete removes a user together with its role profile, degree records and
// authority links. Deleting an absent user is a no-op.
func (repo *userRepository) Delete(ctx context.Context, user *entity.User) error {
	db := repo.db.WithContext(ctx)

	if err := db.Where("provider_user_id = ?", user.ID).Delete(&model.DegreeModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete provider degrees")
	}
	if err := db.Where("user_id = ?", user.ID).Delete(&model.ProviderProfileModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete provider profile")
	}
	if err := db.Where("user_id = ?", user.ID).Delete(&model.SubjectProfileModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete subject profile")
	}

	userM := &model.UserModel{ID: user.ID}
	if err := db.Model(userM).Association("Authorities").Clear(); err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to clear user authorities")
	}
	if err := db.Delete(userM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete user")
	}

	return nil
}

// --- Mapper Functions ---
// These helpers convert between domain entities and persistence models.

// toUserDomain converts a GORM UserModel to a domain User entity.
func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	authorities := make([]string, 0, len(data.Authorities))
	for _, authority := range data.Authorities {
		authorities = append(authorities, authority.Name)
	}

	return &entity.User{
		ID:             data.ID,
		Login:          data.Login,
		Email:          data.Email,
		PasswordHash:   data.PasswordHash,
		FirstName:      data.FirstName,
		LastName:       data.LastName,
		ImageURL:       data.ImageURL,
		LangKey:        data.LangKey,
		Activated:      data.Activated,
		ActivationKey:  data.ActivationKey,
		ResetKey:       data.ResetKey,
		ResetDate:      data.ResetDate,
		Authorities:    entity.AuthoritiesFromStrings(authorities),
		Provider:       toProviderProfileDomain(data.Provider),
		Subject:        toSubjectProfileDomain(data.Subject),
		CreatedBy:      data.CreatedBy,
		CreatedAt:      data.CreatedAt,
		LastModifiedBy: data.LastModifiedBy,
		UpdatedAt:      data.UpdatedAt,
	}
}

// fromUserDomain converts a domain User entity to a GORM UserModel for persistence.
func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	authorities := make([]model.AuthorityModel, 0, len(data.Authorities))
	for _, authority := range data.Authorities {
		authorities = append(authorities, model.AuthorityModel{Name: authority.String()})
	}

	return &model.UserModel{
		ID:             data.ID,
		Login:          data.Login,
		Email:          data.Email,
		PasswordHash:   data.PasswordHash,
		FirstName:      data.FirstName,
		LastName:       data.LastName,
		ImageURL:       data.ImageURL,
		LangKey:        data.LangKey,
		Activated:      data.Activated,
		ActivationKey:  data.ActivationKey,
		ResetKey:       data.ResetKey,
		ResetDate:      data.ResetDate,
		Authorities:    authorities,
		Provider:       fromProviderProfileDomain(data.Provider),
		Subject:        fromSubjectProfileDomain(data.Subject),
		CreatedBy:      data.CreatedBy,
		CreatedAt:      data.CreatedAt,
		LastModifiedBy: data.LastModifiedBy,
	}
}

// toProviderProfileDomain converts a GORM ProviderProfileModel to a domain ProviderProfile entity.
func toProviderProfileDomain(data *model.ProviderProfileModel) *entity.ProviderProfile {
	if data == nil {
		return nil
	}

	degrees := make([]entity.Degree, 0, len(data.Degrees))
	for _, degree := range data.Degrees {
		degrees = append(degrees, entity.Degree{
			Name:           degree.Name,
			Institute:      degree.Institute,
			Country:        degree.Country,
			EnrollmentYear: degree.EnrollmentYear,
			PassingYear:    degree.PassingYear,
		})
	}

	return &entity.ProviderProfile{
		UserID:           data.UserID,
		Phone:            data.Phone,
		LicenseNumber:    data.LicenseNumber,
		NationalID:       data.NationalID,
		PassportNo:       data.PassportNo,
		Type:             data.Type,
		Department:       data.Department,
		Designation:      data.Designation,
		Description:      data.Description,
		Address:          data.Address,
		Location:         toLocationDomain(data.Latitude, data.Longitude),
		Image:            data.Image,
		ImageContentType: data.ImageContentType,
		Degrees:          degrees,
		UpdatedAt:        data.UpdatedAt,
	}
}

// fromProviderProfileDomain converts a domain ProviderProfile entity to a GORM ProviderProfileModel.
func fromProviderProfileDomain(data *entity.ProviderProfile) *model.ProviderProfileModel {
	if data == nil {
		return nil
	}

	degrees := make([]model.DegreeModel, 0, len(data.Degrees))
	for _, degree := range data.Degrees {
		degrees = append(degrees, model.DegreeModel{
			ProviderUserID: data.UserID,
			Name:           degree.Name,
			Institute:      degree.Institute,
			Country:        degree.Country,
			EnrollmentYear: degree.EnrollmentYear,
			PassingYear:    degree.PassingYear,
		})
	}

	latitude, longitude := fromLocationDomain(data.Location)

	return &model.ProviderProfileModel{
		UserID:           data.UserID,
		Phone:            data.Phone,
		LicenseNumber:    data.LicenseNumber,
		NationalID:       data.NationalID,
		PassportNo:       data.PassportNo,
		Type:             data.Type,
		Department:       data.Department,
		Designation:      data.Designation,
		Description:      data.Description,
		Address:          data.Address,
		Latitude:         latitude,
		Longitude:        longitude,
		Image:            data.Image,
		ImageContentType: data.ImageContentType,
		Degrees:          degrees,
		UpdatedAt:        data.UpdatedAt,
	}
}

// toSubjectProfileDomain converts a GORM SubjectProfileModel to a domain SubjectProfile entity.
func toSubjectProfileDomain(data *model.SubjectProfileModel) *entity.SubjectProfile {
	if data == nil {
		return nil
	}

	return &entity.SubjectProfile{
		UserID:           data.UserID,
		Phone:            data.Phone,
		Sex:              entity.Sex(data.Sex),
		BirthTimestamp:   data.BirthTimestamp,
		BloodGroup:       entity.BloodGroup(data.BloodGroup),
		WeightInKG:       data.WeightInKG,
		HeightInInch:     data.HeightInInch,
		Address:          data.Address,
		Location:         toLocationDomain(data.Latitude, data.Longitude),
		Image:            data.Image,
		ImageContentType: data.ImageContentType,
		UpdatedAt:        data.UpdatedAt,
	}
}

// fromSubjectProfileDomain converts a domain SubjectProfile entity to a GORM SubjectProfileModel.
func fromSubjectProfileDomain(data *entity.SubjectProfile) *model.SubjectProfileModel {
	if data == nil {
		return nil
	}

	latitude, longitude := fromLocationDomain(data.Location)

	return &model.SubjectProfileModel{
		UserID:           data.UserID,
		Phone:            data.Phone,
		Sex:              string(data.Sex),
		BirthTimestamp:   data.BirthTimestamp,
		BloodGroup:       string(data.BloodGroup),
		WeightInKG:       data.WeightInKG,
		HeightInInch:     data.HeightInInch,
		Address:          data.Address,
		Latitude:         latitude,
		Longitude:        longitude,
		Image:            data.Image,
		ImageContentType: data.ImageContentType,
		UpdatedAt:        data.UpdatedAt,
	}
}

// toLocationDomain rebuilds the orb point from split columns. Points are
// stored as (longitude, latitude) per the orb convention.
func toLocationDomain(latitude, longitude *float64) *orb.Point {
	if latitude == nil || longitude == nil {
		return nil
	}

	point := orb.Point{*longitude, *latitude}

	return &point
}

func fromLocationDomain(location *orb.Point) (latitude, longitude *float64) {
	if location == nil {
		return nil, nil
	}

	lat := location.Lat()
	lon := location.Lon()

	return &lat, &lon
}
