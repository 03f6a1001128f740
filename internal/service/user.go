package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/roeeblo/smart-job-tracker/internal/dto"
	apperrors "github.com/roeeblo/smart-job-tracker/internal/errors"
	"github.com/roeeblo/smart-job-tracker/internal/model"
	"github.com/roeeblo/smart-job-tracker/internal/repository"
	"github.com/roeeblo/smart-job-tracker/pkg/logger"
	"github.com/roeeblo/smart-job-tracker/pkg/mailer"
)

const verifyTokenTTL = 24 * time.Hour

type UserService struct {
	users  repository.UserRepository
	tokens *TokenService
	mail   mailer.Mailer
	// baseURL builds verification links pointing back at this API.
	baseURL string
	now     func() time.Time
}

func NewUserService(users repository.UserRepository, tokens *TokenService, mail mailer.Mailer, baseURL string) *UserService {
	return &UserService{
		users:   users,
		tokens:  tokens,
		mail:    mail,
		baseURL: baseURL,
		now:     time.Now,
	}
}

// Register creates an unverified account and emails a verification link.
func (s *UserService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	email := normalizeEmail(req.Email)

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, apperrors.ErrEmailExists
	} else if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	token := uuid.NewString()
	expires := s.now().Add(verifyTokenTTL)
	user := &model.User{
		Name:          strings.TrimSpace(req.Name),
		Email:         email,
		PasswordHash:  hash,
		EmailVerified: false,
		VerifyToken:   &token,
		VerifyExpires: &expires,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.sendVerification(user, token)

	return &dto.RegisterResponse{
		User:    toUserResponse(user),
		Message: "verification email sent",
	}, nil
}

// Login checks credentials and issues both tokens. A wrong email and a
// wrong password produce the same error so the endpoint does not leak
// which accounts exist.
func (s *UserService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.HasPassword() || !checkPassword(user.PasswordHash, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.EmailVerified {
		return nil, apperrors.ErrEmailNotVerified
	}

	return s.issueSession(ctx, user)
}

func (s *UserService) issueSession(ctx context.Context, user *model.User) (*dto.LoginResponse, error) {
	access, err := s.tokens.IssueAccess(user.ID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefresh(user.ID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		logger.GetLogger().Warn("failed to record last login",
			zap.Uint("user_id", user.ID),
			zap.Error(err),
		)
	}
	user.LastLogin = &now

	return &dto.LoginResponse{
		User:         toUserResponse(user),
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

// Refresh trades a valid refresh token for a new access token. The
// refresh token itself is not rotated.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*dto.RefreshResponse, error) {
	userID, err := s.tokens.Verify(refreshToken, RefreshToken)
	if err != nil {
		return nil, apperrors.ErrUnauthenticated
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, apperrors.ErrUnauthenticated
	}

	access, err := s.tokens.IssueAccess(userID)
	if err != nil {
		return nil, err
	}
	return &dto.RefreshResponse{AccessToken: access}, nil
}

func (s *UserService) Profile(ctx context.Context, userID uint) (*dto.UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// VerifyEmail consumes a verification token. Tokens are single use;
// expired or already-used tokens fail identically.
func (s *UserService) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return apperrors.ErrVerificationInvalid
	}

	user, err := s.users.FindByVerifyToken(ctx, token)
	if err != nil {
		return apperrors.ErrVerificationInvalid
	}

	if user.VerifyExpires == nil || s.now().After(*user.VerifyExpires) {
		return apperrors.ErrVerificationInvalid
	}

	user.EmailVerified = true
	user.VerifyToken = nil
	user.VerifyExpires = nil
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	logger.GetLogger().Info("email verified",
		zap.Uint("user_id", user.ID),
	)
	return nil
}

// ResendVerification mints a fresh token for an unverified account.
// An already-verified account succeeds without sending anything.
func (s *UserService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return nil
	}

	token := uuid.NewString()
	expires := s.now().Add(verifyTokenTTL)
	user.VerifyToken = &token
	user.VerifyExpires = &expires
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.sendVerification(user, token)
	return nil
}

func (s *UserService) sendVerification(user *model.User, token string) {
	link := s.baseURL + "/verify?token=" + token
	if err := s.mail.SendVerification(user.Email, user.Name, link); err != nil {
		// Registration still succeeds; the user can ask for a resend.
		logger.GetLogger().Error("failed to send verification email",
			zap.String("email", user.Email),
			zap.Error(err),
		)
	}
}

func toUserResponse(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		EmailVerified: user.EmailVerified,
		LastLogin:     user.LastLogin,
		CreatedAt:     user.CreatedAt,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
