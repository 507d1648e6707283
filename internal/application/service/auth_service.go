package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/rajtiles-api/internal/domain/entity"
	"github.com/sangkips/rajtiles-api/internal/domain/repository"
	"github.com/sangkips/rajtiles-api/pkg/apperror"
	"github.com/sangkips/rajtiles-api/pkg/utils"
)

// MinPasswordLength applies to every password set through the API
const MinPasswordLength = 8

// AuthService handles authentication-related operations
type AuthService struct {
	userRepo   repository.UserRepository
	roleRepo   repository.RoleRepository
	jwtManager *utils.JWTManager
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	jwtManager *utils.JWTManager,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		roleRepo:   roleRepo,
		jwtManager: jwtManager,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Username string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	User         *entity.User
	AccessToken  string
	RefreshToken string
}

// NormalizeUsername lowercases and trims a username
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	user, err := s.userRepo.GetByUsername(ctx, NormalizeUsername(input.Username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		return nil, apperror.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user.ID)
}

// SignupInput represents the self-registration input
type SignupInput struct {
	Username string
	Password string
}

// Signup creates a sales account and signs it in
func (s *AuthService) Signup(ctx context.Context, input *SignupInput) (*LoginOutput, error) {
	user, err := createAccount(ctx, s.userRepo, s.roleRepo, input.Username, input.Password, entity.RoleSales)
	if err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, user.ID)
}

// RefreshToken generates new tokens from a refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginOutput, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if utils.IsTokenExpired(err) {
		return nil, apperror.ErrTokenExpired
	}
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}

	out, err := s.issueTokens(ctx, userID)
	if err == apperror.ErrNotFound {
		// the account was deleted after the token was issued
		return nil, apperror.ErrInvalidToken
	}
	return out, err
}

// GetCurrentUser returns the current user by ID
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetWithRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}
	return user, nil
}

// ChangePasswordInput represents the change password input
type ChangePasswordInput struct {
	UserID          uuid.UUID
	CurrentPassword string
	NewPassword     string
}

// ChangePassword changes the user's password
func (s *AuthService) ChangePassword(ctx context.Context, input *ChangePasswordInput) error {
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.ErrNotFound
	}

	if !utils.CheckPasswordHash(input.CurrentPassword, user.Password) {
		return apperror.NewBadRequestError("Current password is incorrect")
	}
	if len(input.NewPassword) < MinPasswordLength {
		return passwordTooShort()
	}

	hashedPassword, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}

	user.Password = hashedPassword
	return s.userRepo.Update(ctx, user)
}

func (s *AuthService) issueTokens(ctx context.Context, userID uuid.UUID) (*LoginOutput, error) {
	user, err := s.userRepo.GetWithRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Username, user.GetRoleNames(), user.GetPermissions())
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// createAccount registers a user with a single role. Shared by signup and
// admin registration.
func createAccount(
	ctx context.Context,
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	username, password, roleName string,
) (*entity.User, error) {
	username = NormalizeUsername(username)
	if username == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "username", Message: "Username is required"}})
	}
	if len(password) < MinPasswordLength {
		return nil, passwordTooShort()
	}

	role, err := roleRepo.GetByName(ctx, roleName)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, apperror.NewBadRequestError("Unknown role: " + roleName)
	}

	existing, err := userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Username already exists")
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{Username: username, Password: hashedPassword}
	if err := userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	if err := userRepo.AssignRole(ctx, user.ID, role.ID); err != nil {
		return nil, err
	}
	return user, nil
}

func passwordTooShort() *apperror.AppError {
	return apperror.NewValidationError([]apperror.FieldError{{
		Field:   "password",
		Message: "Password must be at least 8 characters",
	}})
}
