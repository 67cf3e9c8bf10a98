// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	deliverycontext "careid/internal/delivery/context"
	"careid/internal/domain/constants"
	"careid/internal/domain/entity"
	domainerrors "careid/internal/domain/errors"
	"careid/internal/domain/repository"
	"careid/internal/domain/service"
	"careid/internal/usecase"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// accountService implements the AccountUsecase interface. It is the single
// owner of write transitions on users and their role profiles.
type accountService struct {
	txManager repository.TransactionManager
	userRepo  repository.UserRepository
	hasher    service.PasswordHasher
	keyGen    service.KeyGenerator
	userCache service.UserCache
	mirror    service.SearchMirror
	qrService service.QRCodeService
	alerts    service.AlertNotifier
	logger    *slog.Logger
	now       func() time.Time
}

// AccountServiceParams holds dependencies for accountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	UserRepo  repository.UserRepository
	Hasher    service.PasswordHasher
	KeyGen    service.KeyGenerator
	UserCache service.UserCache
	Mirror    service.SearchMirror
	QRService service.QRCodeService
	Alerts    service.AlertNotifier
	Logger    *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		txManager: params.TxManager,
		userRepo:  params.UserRepo,
		hasher:    params.Hasher,
		keyGen:    params.KeyGen,
		userCache: params.UserCache,
		mirror:    params.Mirror,
		qrService: params.QRService,
		alerts:    params.Alerts,
		logger:    params.Logger,
		now:       time.Now,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// normalize converts an identifier to its canonical comparison form.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// evictUser drops both cache entries for the user. Eviction races with
// concurrent readers are harmless.
func (srv *accountService) evictUser(user *entity.User) {
	srv.userCache.Evict(service.CacheByLogin, user.Login)
	srv.userCache.Evict(service.CacheByEmail, normalize(user.Email))
}

// mirrorUpsert pushes the user to the search index. Mirror failures are
// logged and swallowed; they never fail the primary operation.
func (srv *accountService) mirrorUpsert(ctx context.Context, user *entity.User) {
	if err := srv.mirror.Upsert(ctx, user); err != nil {
		srv.log(ctx).Warn("Search mirror upsert failed",
			slog.String("login", user.Login),
			slog.Any("error", err),
		)
	}
}

// pushAlert notifies the account owner about a credential change.
// Delivery failures are logged and swallowed.
func (srv *accountService) pushAlert(ctx context.Context, user *entity.User, event string) {
	if err := srv.alerts.PushSecurityAlert(ctx, user, event); err != nil {
		srv.log(ctx).Warn("Failed to push security alert",
			slog.String("login", user.Login),
			slog.String("event", event),
			slog.Any("error", err),
		)
	}
}

func (srv *accountService) mirrorDelete(ctx context.Context, user *entity.User) {
	if err := srv.mirror.Delete(ctx, user); err != nil {
		srv.log(ctx).Warn("Search mirror delete failed",
			slog.String("login", user.Login),
			slog.Any("error", err),
		)
	}
}

// reclaim deletes an unactivated account to free its unique identifiers.
// The delete commits in its own transaction, so it stays committed even when
// a later arbitration step rejects the registration.
func (srv *accountService) reclaim(ctx context.Context, user *entity.User) error {
	srv.log(ctx).Info("Reclaiming unactivated account",
		slog.String("login", user.Login),
		slog.String("email", user.Email),
	)

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.UserRepo().Delete(ctx, user)
	})
	if err != nil {
		return errors.Wrap(err, "failed to reclaim unactivated account")
	}

	srv.mirrorDelete(ctx, user)
	srv.evictUser(user)

	return nil
}

// Register orchestrates the registration and uniqueness arbitration flow.
// Login, email and license are checked in that order; each reclamation is a
// committed side effect, even when a later check rejects the attempt.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	login := normalize(input.Login)
	email := normalize(input.Email)

	srv.log(ctx).Info("Starting registration",
		slog.String("login", login),
		slog.String("email", email),
	)

	if err := srv.arbitrateLogin(ctx, login); err != nil {
		return nil, err
	}
	if err := srv.arbitrateEmail(ctx, email); err != nil {
		return nil, err
	}

	wantsProvider := requestsAuthority(input.Authorities, entity.AuthorityProvider)
	if wantsProvider {
		if input.Provider == nil {
			return nil, domainerrors.ErrProviderDataMissing
		}
		license := strings.TrimSpace(input.Provider.LicenseNumber)
		if len(license) < constants.LicenseNumberMinLength || len(license) > constants.LicenseNumberMaxLength {
			return nil, domainerrors.ErrInvalidLicenseNumber
		}
		if err := srv.arbitrateLicense(ctx, license); err != nil {
			return nil, err
		}
	}

	user, err := srv.buildNewAccount(input, login, email, wantsProvider)
	if err != nil {
		return nil, err
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.UserRepo().Create(ctx, user)
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute registration transaction",
			slog.String("login", login),
			slog.Any("error", err),
		)

		return nil, err
	}

	srv.mirrorUpsert(ctx, user)
	// A reclaimed identifier may still have cache entries for the deleted row.
	srv.evictUser(user)

	srv.log(ctx).Debug("Registration completed",
		slog.String("login", login),
		slog.Any("userID", user.ID),
	)

	return &usecase.RegisterOutput{
		User:         user,
		ActivationQR: srv.renderActivationQR(ctx, user),
	}, nil
}

// arbitrateLogin applies the reclaim-or-reject rule for the login identifier.
func (srv *accountService) arbitrateLogin(ctx context.Context, login string) error {
	existing, err := srv.userRepo.FindByLogin(ctx, login)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "failed to check login availability")
	}

	if existing.Activated {
		return domainerrors.ErrLoginAlreadyUsed
	}

	return srv.reclaim(ctx, existing)
}

// arbitrateEmail applies the reclaim-or-reject rule for the email identifier.
func (srv *accountService) arbitrateEmail(ctx context.Context, email string) error {
	existing, err := srv.userRepo.FindByEmailIgnoreCase(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "failed to check email availability")
	}

	if existing.Activated {
		return domainerrors.ErrEmailAlreadyUsed
	}

	return srv.reclaim(ctx, existing)
}

// arbitrateLicense applies the license rule: a collision with an activated
// provider is always a hard reject, an unactivated holder is reclaimed. The
// asymmetry with login/email handling is deliberate.
func (srv *accountService) arbitrateLicense(ctx context.Context, license string) error {
	holder, err := srv.userRepo.FindProviderByLicense(ctx, license, true)
	if err == nil && holder != nil {
		return domainerrors.ErrLicenseAlreadyUsed
	}
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return errors.Wrap(err, "failed to check license availability")
	}

	unactivated, err := srv.userRepo.FindProviderByLicense(ctx, license, false)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "failed to check license availability")
	}

	return srv.reclaim(ctx, unactivated)
}

// buildNewAccount assembles the unactivated user with its hashed password,
// fresh activation key, downgraded authority set and exactly one role profile.
func (srv *accountService) buildNewAccount(input *usecase.RegisterInput, login, email string, wantsProvider bool) (*entity.User, error) {
	passwordHash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash password during registration")
	}

	activationKey, err := srv.keyGen.ActivationKey()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate activation key")
	}

	langKey := input.LangKey
	if langKey == "" {
		langKey = constants.DefaultLanguage
	}

	user := &entity.User{
		Login:          login,
		Email:          email,
		PasswordHash:   passwordHash,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		ImageURL:       input.ImageURL,
		LangKey:        langKey,
		Activated:      false,
		ActivationKey:  activationKey,
		Authorities:    sanitizeRequestedAuthorities(input.Authorities, wantsProvider),
		CreatedBy:      login,
		LastModifiedBy: login,
	}

	if wantsProvider {
		user.Provider = providerProfileFromInput(input.Provider)
	} else {
		subject, err := subjectProfileFromInput(input.Subject)
		if err != nil {
			return nil, err
		}
		user.Subject = subject
	}

	return user, nil
}

// renderActivationQR is best-effort; a rendering failure never fails the registration.
func (srv *accountService) renderActivationQR(ctx context.Context, user *entity.User) []byte {
	png, err := srv.qrService.GenerateActivationQR(user.ActivationKey)
	if err != nil {
		srv.log(ctx).Warn("Failed to render activation QR",
			slog.String("login", user.Login),
			slog.Any("error", err),
		)

		return nil
	}

	return png
}

// requestsAuthority reports whether the raw requested role names include the authority.
func requestsAuthority(requested []string, authority entity.Authority) bool {
	for _, name := range requested {
		if entity.Authority(name) == authority {
			return true
		}
	}

	return false
}

// sanitizeRequestedAuthorities maps the requested role names through the
// privilege-downgrade rule: administrative roles are silently rewritten to
// the base role, and the role matching the created profile is guaranteed.
func sanitizeRequestedAuthorities(requested []string, wantsProvider bool) entity.Authorities {
	authorities := entity.Authorities{entity.AuthorityUser}
	for _, name := range requested {
		authority := entity.Authority(name)
		switch authority {
		case entity.AuthorityProvider, entity.AuthoritySubject:
			authorities = authorities.Add(authority)
		default:
			// ROLE_ADMIN and unknown names collapse to the base role.
		}
	}

	if wantsProvider {
		authorities = authorities.Add(entity.AuthorityProvider)
	} else {
		authorities = authorities.Add(entity.AuthoritySubject)
	}

	return authorities
}

// providerProfileFromInput maps the provider sub-payload onto a fresh
// profile, defaulting omitted fields to their zero values.
func providerProfileFromInput(input *usecase.ProviderProfileInput) *entity.ProviderProfile {
	if input == nil {
		return &entity.ProviderProfile{}
	}

	degrees := make([]entity.Degree, 0, len(input.Degrees))
	for _, degree := range input.Degrees {
		degrees = append(degrees, entity.Degree{
			Name:           degree.Name,
			Institute:      degree.Institute,
			Country:        degree.Country,
			EnrollmentYear: degree.EnrollmentYear,
			PassingYear:    degree.PassingYear,
		})
	}

	return &entity.ProviderProfile{
		Phone:            input.Phone,
		LicenseNumber:    strings.TrimSpace(input.LicenseNumber),
		NationalID:       input.NationalID,
		PassportNo:       input.PassportNo,
		Type:             input.Type,
		Department:       input.Department,
		Designation:      input.Designation,
		Description:      input.Description,
		Address:          input.Address,
		Location:         locationFromInput(input.Latitude, input.Longitude),
		Image:            input.Image,
		ImageContentType: input.ImageContentType,
		Degrees:          degrees,
	}
}

// subjectProfileFromInput maps the subject sub-payload onto a fresh profile.
// A nil payload yields a profile with default field values.
func subjectProfileFromInput(input *usecase.SubjectProfileInput) (*entity.SubjectProfile, error) {
	if input == nil {
		return &entity.SubjectProfile{}, nil
	}

	sex := entity.Sex(input.Sex)
	if !sex.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown sex value")
	}
	bloodGroup := entity.BloodGroup(input.BloodGroup)
	if !bloodGroup.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown blood group value")
	}

	return &entity.SubjectProfile{
		Phone:            input.Phone,
		Sex:              sex,
		BirthTimestamp:   input.BirthTimestamp,
		BloodGroup:       bloodGroup,
		WeightInKG:       input.WeightInKG,
		HeightInInch:     input.HeightInInch,
		Address:          input.Address,
		Location:         locationFromInput(input.Latitude, input.Longitude),
		Image:            input.Image,
		ImageContentType: input.ImageContentType,
	}, nil
}

func locationFromInput(latitude, longitude *float64) *orb.Point {
	if latitude == nil || longitude == nil {
		return nil
	}

	point := orb.Point{*longitude, *latitude}

	return &point
}
