package auth

import (
	"context"
	"crypto/rand"
	"log/slog"
	"math/big"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	errors "github.com/TamilarasanG17/VT-Wallet/internal"
	userDatamodel "github.com/TamilarasanG17/VT-Wallet/internal/core/datamodel/user"
	"github.com/TamilarasanG17/VT-Wallet/internal/core/events"
)

// RepositoryAPI abstracts user persistence. GetByEmail returns (nil, nil)
// when no user matches, so callers can distinguish "absent" from a store
// failure.
type RepositoryAPI interface {
	Create(u *userDatamodel.User) error
	Save(u *userDatamodel.User) error
	GetByEmail(email string) (*userDatamodel.User, error)
	GetByID(id int64) (*userDatamodel.User, error)
}

type Service struct {
	repo       RepositoryAPI
	tokens     TokenGeneratorAPI
	bus        *events.EventBus
	logger     *slog.Logger
	bcryptCost int
	codeTTL    time.Duration
}

func NewService(repo RepositoryAPI, tokens TokenGeneratorAPI, bus *events.EventBus, lg *slog.Logger, bcryptCost int, codeTTL time.Duration) *Service {
	if lg == nil {
		lg = slog.Default()
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	if codeTTL <= 0 {
		codeTTL = 10 * time.Minute
	}
	return &Service{
		repo:       repo,
		tokens:     tokens,
		bus:        bus,
		logger:     lg,
		bcryptCost: bcryptCost,
		codeTTL:    codeTTL,
	}
}

// Register creates an unverified user and emails a verification code. The
// account cannot log in until the code is confirmed.
func (s *Service) Register(dto RegisterDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	email := normalizeEmail(dto.Email)
	existing, err := s.repo.GetByEmail(email)
	if err != nil {
		return errors.NewStoreUnavailableError("failed to look up user", err)
	}
	if existing != nil {
		return errors.ErrEmailTaken
	}

	hash, err := HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return errors.NewInternalError("failed to hash password", err)
	}

	user := &userDatamodel.User{
		Username:     strings.TrimSpace(dto.Username),
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.repo.Create(user); err != nil {
		return errors.NewStoreUnavailableError("failed to create user", err)
	}

	s.logger.Info("user registered, verification pending", "user_id", user.ID)
	return s.issueCode(user, PurposeRegister)
}

// Login checks credentials and emails a login code; tokens are only issued
// once the code is verified.
func (s *Service) Login(dto LoginDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	user, err := s.repo.GetByEmail(normalizeEmail(dto.Email))
	if err != nil {
		return errors.NewStoreUnavailableError("failed to look up user", err)
	}
	if user == nil {
		return errors.ErrInvalidCredentials
	}
	if err := VerifyPassword(user.PasswordHash, dto.Password); err != nil {
		return errors.ErrInvalidCredentials
	}

	return s.issueCode(user, PurposeLogin)
}

// ForgotPassword emails a reset code. An unknown email is reported as
// success so the endpoint cannot be used to probe which addresses exist.
func (s *Service) ForgotPassword(dto ForgotPasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	user, err := s.repo.GetByEmail(normalizeEmail(dto.Email))
	if err != nil {
		return errors.NewStoreUnavailableError("failed to look up user", err)
	}
	if user == nil {
		s.logger.Info("forgot password for unknown email, ignoring")
		return nil
	}

	return s.issueCode(user, PurposeForgotPassword)
}

// VerifyCode consumes a one-time code. Register and login flows yield an
// access/refresh token pair; the forgot-password flow yields a reset token.
// Codes are single-use regardless of outcome of the caller's next step.
func (s *Service) VerifyCode(dto VerifyCodeDTO) (*VerifyResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByEmail(normalizeEmail(dto.Email))
	if err != nil {
		return nil, errors.NewStoreUnavailableError("failed to look up user", err)
	}
	if user == nil {
		return nil, errors.ErrUserNotFound
	}

	if user.Code == nil || user.CodeExpiresAt == nil {
		return nil, errors.ErrInvalidCode
	}
	if *user.Code != strings.TrimSpace(dto.Code) || time.Now().After(*user.CodeExpiresAt) {
		return nil, errors.ErrInvalidCode
	}

	user.Code = nil
	user.CodeExpiresAt = nil
	if dto.Purpose == PurposeRegister {
		user.IsVerified = true
	}
	if err := s.repo.Save(user); err != nil {
		return nil, errors.NewStoreUnavailableError("failed to update user", err)
	}

	userID := strconv.FormatInt(user.ID, 10)
	switch dto.Purpose {
	case PurposeRegister, PurposeLogin:
		access, err := s.tokens.GenerateAccessToken(userID, user.Email)
		if err != nil {
			return nil, errors.NewInternalError("failed to generate access token", err)
		}
		refresh, err := s.tokens.GenerateRefreshToken(userID, user.Email)
		if err != nil {
			return nil, errors.NewInternalError("failed to generate refresh token", err)
		}
		s.logger.Info("code verified, session issued", "user_id", user.ID, "purpose", dto.Purpose)
		return &VerifyResult{Tokens: &AuthTokens{AccessToken: access, RefreshToken: refresh}}, nil

	case PurposeForgotPassword:
		reset, err := s.tokens.GenerateResetToken(userID, user.Email)
		if err != nil {
			return nil, errors.NewInternalError("failed to generate reset token", err)
		}
		s.logger.Info("code verified, reset token issued", "user_id", user.ID)
		return &VerifyResult{ResetToken: reset}, nil

	default:
		return nil, errors.NewInvalidArgumentError("unknown verification purpose", errors.ErrCodeInvalidPurpose)
	}
}

// ResetPassword exchanges a valid reset token for a new password.
func (s *Service) ResetPassword(dto ResetPasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	claims, err := s.tokens.ValidateResetToken(dto.Token)
	if err != nil {
		return err
	}

	id, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return errors.ErrInvalidToken
	}
	user, err := s.repo.GetByID(id)
	if err != nil {
		return errors.NewStoreUnavailableError("failed to look up user", err)
	}
	if user == nil {
		return errors.ErrUserNotFound
	}

	hash, err := HashPassword(dto.NewPassword, s.bcryptCost)
	if err != nil {
		return errors.NewInternalError("failed to hash password", err)
	}
	user.PasswordHash = hash
	if err := s.repo.Save(user); err != nil {
		return errors.NewStoreUnavailableError("failed to update user", err)
	}

	s.logger.Info("password reset completed", "user_id", user.ID)
	if s.bus != nil {
		if pubErr := s.bus.Publish(context.Background(), events.NewPasswordChangedEvent(user.ID, user.Email)); pubErr != nil {
			s.logger.Warn("failed to publish password changed event", "error", pubErr)
		}
	}
	return nil
}

// RefreshTokens rotates an access/refresh pair from a valid refresh token.
func (s *Service) RefreshTokens(refreshToken string) (*AuthTokens, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	access, err := s.tokens.GenerateAccessToken(claims.UserID, claims.Email)
	if err != nil {
		return nil, errors.NewInternalError("failed to generate access token", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(claims.UserID, claims.Email)
	if err != nil {
		return nil, errors.NewInternalError("failed to generate refresh token", err)
	}

	return &AuthTokens{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokens.ValidateAccessToken(tokenString)
}

// GetUserByID loads the principal for an authenticated request.
func (s *Service) GetUserByID(id int64) (*User, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		return nil, errors.NewStoreUnavailableError("failed to look up user", err)
	}
	if record == nil {
		return nil, errors.ErrUserNotFound
	}
	return &User{
		ID:         record.ID,
		Username:   record.Username,
		Email:      record.Email,
		IsVerified: record.IsVerified,
	}, nil
}

// issueCode stamps a fresh one-time code on the user and hands delivery to
// the event bus, keeping SMTP out of the request path.
func (s *Service) issueCode(user *userDatamodel.User, purpose string) error {
	code, err := generateCode()
	if err != nil {
		return errors.NewInternalError("failed to generate code", err)
	}
	expires := time.Now().Add(s.codeTTL)

	user.Code = &code
	user.CodeExpiresAt = &expires
	if err := s.repo.Save(user); err != nil {
		return errors.NewStoreUnavailableError("failed to store code", err)
	}

	if s.bus != nil {
		if pubErr := s.bus.Publish(context.Background(), events.NewCodeIssuedEvent(user.Email, user.Username, code, purpose)); pubErr != nil {
			s.logger.Warn("failed to publish code issued event", "error", pubErr)
		}
	}
	s.logger.Info("one-time code issued", "user_id", user.ID, "purpose", purpose)
	return nil
}

// generateCode returns a 4-digit code from crypto/rand.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+1000, 10), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
