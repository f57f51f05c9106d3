package usecase

import (
	"context"
	"errors"
	"math"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/learnhubhq/learnhub-api/internal/domain"
	"github.com/learnhubhq/learnhub-api/pkg/security"
)

// How long a user stays in the cache before the next read goes back to the
// database. Mutations invalidate eagerly, so this only bounds staleness from
// out-of-band changes.
const userCacheTTL = 30 * time.Minute

// UserUsecase implements registration, authentication, the OTP-gated
// verification flows, profile management and the administrative user
// operations.
type UserUsecase struct {
	users  domain.UserRepository
	cache  domain.UserCache
	mailer domain.Mailer
	media  domain.MediaStorage
	codec  *security.TokenCodec
}

func NewUserUsecase(
	users domain.UserRepository,
	cache domain.UserCache,
	mailer domain.Mailer,
	media domain.MediaStorage,
	codec *security.TokenCodec,
) *UserUsecase {
	return &UserUsecase{
		users:  users,
		cache:  cache,
		mailer: mailer,
		media:  media,
		codec:  codec,
	}
}

// Register validates the registration request and starts the activation
// challenge: a 4-digit code is mailed to the address and the pending account
// (with the credential already hashed) is sealed into the returned token.
// No database row exists until Activate succeeds.
func (u *UserUsecase) Register(ctx context.Context, name, email, password string) (string, error) {
	if name == "" || email == "" || password == "" {
		return "", ErrMissingFields
	}
	if !validEmail(email) {
		return "", ErrInvalidEmail
	}
	if !security.IsStrongPassword(password) {
		return "", ErrWeakPassword
	}

	if _, err := u.users.GetByEmail(ctx, email); err == nil {
		return "", ErrEmailExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return "", err
	}

	code := security.NewOTP()
	token, err := u.codec.SignActivation(name, email, hash, code)
	if err != nil {
		return "", err
	}

	err = u.mailer.Send(ctx, domain.Mail{
		To:       email,
		Subject:  "Activate your account",
		Template: "activation",
		Data:     map[string]any{"Name": name, "Code": code},
	})
	if err != nil {
		return "", err
	}

	return token, nil
}

// Activate finishes registration: the token must verify under the activation
// secret, the supplied code must equal the embedded one, and the email must
// still be free. The duplicate check ran at Register time too; re-checking
// here narrows the race window, and the unique index on email closes it.
func (u *UserUsecase) Activate(ctx context.Context, token, code string) (*domain.User, error) {
	if code == "" {
		return nil, ErrMissingCode
	}

	claims, err := u.codec.VerifyActivation(token)
	if err != nil {
		return nil, err
	}
	if !security.OTPMatches(claims.Code, code) {
		return nil, ErrInvalidCode
	}

	if _, err := u.users.GetByEmail(ctx, claims.Email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         claims.Name,
		Email:        claims.Email,
		PasswordHash: claims.PasswordHash,
		Role:         domain.RoleUser,
	}
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return user, nil
}

// Login validates credentials and returns the user; the transport layer
// issues the session cookies.
func (u *UserUsecase) Login(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}

	user, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	match, err := security.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// SocialAuth finds or creates an account for an externally authenticated
// identity. Created accounts carry no local credential.
func (u *UserUsecase) SocialAuth(ctx context.Context, email, name, avatarURL string) (*domain.User, error) {
	if email == "" || name == "" {
		return nil, ErrMissingFields
	}

	user, err := u.users.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	user = &domain.User{
		ID:     uuid.NewString(),
		Name:   name,
		Email:  email,
		Role:   domain.RoleUser,
		Avatar: domain.Avatar{URL: avatarURL},
	}
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return user, nil
}

// ForgotPassword starts the reset challenge for a known email: the code is
// mailed, the token is returned to the caller. The code itself never appears
// in the response body.
func (u *UserUsecase) ForgotPassword(ctx context.Context, email string) (string, error) {
	if email == "" {
		return "", ErrMissingFields
	}
	if !validEmail(email) {
		return "", ErrInvalidEmail
	}

	user, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	code := security.NewOTP()
	token, err := u.codec.SignReset(email, code)
	if err != nil {
		return "", err
	}

	err = u.mailer.Send(ctx, domain.Mail{
		To:       email,
		Subject:  "Reset your password",
		Template: "reset-password",
		Data:     map[string]any{"Name": user.Name, "Code": code},
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// AcceptResetOTP trades a verified reset code for a narrower grant token that
// only authorizes setting a new password for the email it names. Separating
// the two steps means the code is spent before the new password is chosen.
func (u *UserUsecase) AcceptResetOTP(ctx context.Context, token, code string) (string, error) {
	if code == "" {
		return "", ErrMissingCode
	}

	claims, err := u.codec.VerifyReset(token)
	if err != nil {
		return "", err
	}
	if !security.OTPMatches(claims.Code, code) {
		return "", ErrInvalidCode
	}
	return u.codec.SignResetGrant(claims.Email)
}

// ResetPassword finalizes the reset under a valid grant token. The caller
// decides whether to clear session cookies based on whether the returned user
// matches the acting session.
func (u *UserUsecase) ResetPassword(ctx context.Context, grantToken, newPassword, confirmPassword string) (*domain.User, error) {
	if newPassword == "" || confirmPassword == "" {
		return nil, ErrMissingFields
	}
	if newPassword != confirmPassword {
		return nil, ErrPasswordMismatch
	}
	if !security.IsStrongPassword(newPassword) {
		return nil, ErrWeakPassword
	}

	claims, err := u.codec.VerifyResetGrant(grantToken)
	if err != nil {
		return nil, err
	}

	user, err := u.users.GetByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.PasswordHash != "" {
		same, err := security.ComparePassword(newPassword, user.PasswordHash)
		if err != nil {
			return nil, err
		}
		if same {
			return nil, ErrPasswordUnchanged
		}
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash
	if err := u.users.Update(ctx, user); err != nil {
		return nil, err
	}
	u.invalidate(ctx, user.ID)
	return user, nil
}

// GetUserByID resolves a user, preferring the cache. Cache failures fall back
// to the database silently.
func (u *UserUsecase) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	if user, err := u.cache.Get(ctx, id); err == nil {
		return user, nil
	}

	user, err := u.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	_ = u.cache.Set(ctx, user, userCacheTTL)
	return user, nil
}

// RequestEmailChange mails a verification code to the new address and returns
// the matching challenge token.
func (u *UserUsecase) RequestEmailChange(ctx context.Context, user *domain.User, newEmail string) (string, error) {
	if newEmail == "" {
		return "", ErrMissingFields
	}
	if !validEmail(newEmail) {
		return "", ErrInvalidEmail
	}
	if strings.EqualFold(newEmail, user.Email) {
		return "", ErrEmailUnchanged
	}

	if _, err := u.users.GetByEmail(ctx, newEmail); err == nil {
		return "", ErrEmailExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}

	code := security.NewOTP()
	token, err := u.codec.SignEmailChange(newEmail, code)
	if err != nil {
		return "", err
	}

	err = u.mailer.Send(ctx, domain.Mail{
		To:       newEmail,
		Subject:  "Verify your email",
		Template: "update-email",
		Data:     map[string]any{"Code": code},
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// UpdateEmail finalizes an email change. Beyond the OTP, the caller must
// re-enter the current password and current email as step-up confirmation.
func (u *UserUsecase) UpdateEmail(ctx context.Context, userID, token, code, currentEmail, newEmail, password string) (*domain.User, error) {
	if code == "" || currentEmail == "" || newEmail == "" || password == "" {
		return nil, ErrMissingFields
	}

	user, err := u.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	claims, err := u.codec.VerifyEmailChange(token)
	if err != nil {
		return nil, err
	}
	if claims.Email != newEmail {
		return nil, ErrEmailTokenMismatch
	}
	if !security.OTPMatches(claims.Code, code) {
		return nil, ErrInvalidCode
	}
	if currentEmail != user.Email {
		return nil, ErrAccountMismatch
	}

	match, err := security.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return nil, ErrInvalidCredentials
	}

	user.Email = newEmail
	if err := u.users.Update(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	u.invalidate(ctx, user.ID)
	return user, nil
}

// UpdatePassword changes the credential of an authenticated user.
func (u *UserUsecase) UpdatePassword(ctx context.Context, userID, currentPassword, newPassword, confirmPassword string) error {
	if currentPassword == "" || newPassword == "" || confirmPassword == "" {
		return ErrMissingFields
	}
	if currentPassword == newPassword {
		return ErrPasswordUnchanged
	}
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}

	user, err := u.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	match, err := security.ComparePassword(currentPassword, user.PasswordHash)
	if err != nil || !match {
		return ErrCurrentPasswordWrong
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := u.users.Update(ctx, user); err != nil {
		return err
	}
	u.invalidate(ctx, user.ID)
	return nil
}

// UpdateName changes the display name; re-submitting the current name is
// rejected.
func (u *UserUsecase) UpdateName(ctx context.Context, userID, name string) (*domain.User, error) {
	if name == "" {
		return nil, ErrMissingFields
	}

	user, err := u.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.Name == name {
		return nil, ErrNameUnchanged
	}

	user.Name = name
	if err := u.users.Update(ctx, user); err != nil {
		return nil, err
	}
	u.invalidate(ctx, user.ID)
	return user, nil
}

// UpdateAvatar replaces the externally stored avatar. The prior asset is
// destroyed first, then the new one uploaded; the user row is only written
// after a successful upload so the stored reference never points at an asset
// that failed to upload.
func (u *UserUsecase) UpdateAvatar(ctx context.Context, userID, imageData string) (*domain.User, error) {
	if imageData == "" {
		return nil, ErrMissingFields
	}

	user, err := u.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.Avatar.PublicID != "" {
		if err := u.media.Destroy(ctx, user.Avatar.PublicID); err != nil {
			return nil, err
		}
	}

	asset, err := u.media.Upload(ctx, "avatars", imageData)
	if err != nil {
		return nil, err
	}

	user.Avatar = domain.Avatar{PublicID: asset.PublicID, URL: asset.URL}
	if err := u.users.Update(ctx, user); err != nil {
		return nil, err
	}
	u.invalidate(ctx, user.ID)
	return user, nil
}

// ListUsers returns one page of users plus the total page count. Admin only;
// the gate enforces that.
func (u *UserUsecase) ListUsers(ctx context.Context, page, limit int) ([]*domain.User, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 12
	}

	users, total, err := u.users.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return users, totalPages, nil
}

// UpdateRole reassigns a user's role by email. Assigning the role the user
// already holds is rejected rather than silently succeeding.
func (u *UserUsecase) UpdateRole(ctx context.Context, email, role string) (*domain.User, error) {
	if email == "" || role == "" {
		return nil, ErrMissingFields
	}
	if role != domain.RoleUser && role != domain.RoleAdmin {
		return nil, ErrInvalidRole
	}

	user, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.Role == role {
		return nil, ErrRoleUnchanged
	}

	user.Role = role
	if err := u.users.Update(ctx, user); err != nil {
		return nil, err
	}
	u.invalidate(ctx, user.ID)
	return user, nil
}

// DeleteUser removes an account by id.
func (u *UserUsecase) DeleteUser(ctx context.Context, id string) error {
	if _, err := u.users.GetByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if err := u.users.Delete(ctx, id); err != nil {
		return err
	}
	u.invalidate(ctx, id)
	return nil
}

// invalidate drops the cached copy; cache errors are non-fatal.
func (u *UserUsecase) invalidate(ctx context.Context, id string) {
	_ = u.cache.Delete(ctx, id)
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
