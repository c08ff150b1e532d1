package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"goodcitizen/internal/auth"
	"goodcitizen/internal/errors"
	"goodcitizen/internal/model"
	"goodcitizen/internal/repository"
)

const bcryptCost = 10

var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = stderrors.New("invalid email or password")
	// ErrInvalidRefreshToken is returned when refresh token is invalid or expired.
	ErrInvalidRefreshToken = stderrors.New("invalid or expired refresh token")
	// ErrInvalidAssertion is returned when the OTP provider rejects an assertion.
	ErrInvalidAssertion = stderrors.New("invalid identity assertion")
)

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// WelcomeNotifier greets new users, fire-and-forget.
type WelcomeNotifier interface {
	NotifyWelcome(user *model.User)
}

// AuthService handles registration and authentication.
type AuthService interface {
	Register(ctx context.Context, name, email, phone, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, user *model.User, err error)
	// OTPLogin exchanges an external credential assertion for a session,
	// creating or linking the local user as needed.
	OTPLogin(ctx context.Context, assertion, name string) (accessToken, refreshToken string, user *model.User, err error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	verifier   auth.IdentityVerifier
	welcome    WelcomeNotifier
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	userRepo repository.UserRepository,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	verifier auth.IdentityVerifier,
	welcome WelcomeNotifier,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
		verifier:   verifier,
		welcome:    welcome,
	}
}

// Register creates a new user with a hashed password. Email and phone are
// both globally unique.
func (s *authService) Register(ctx context.Context, name, email, phone, password string) (*model.User, error) {
	if len(name) < 2 {
		return nil, fmt.Errorf("%w: name must be at least 2 characters", errors.ErrValidation)
	}
	if !phonePattern.MatchString(phone) {
		return nil, fmt.Errorf("%w: phone must be a 10-digit number", errors.ErrValidation)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", errors.ErrValidation)
	}

	existing, err := s.userRepo.FindByEmailOrPhone(ctx, email, phone)
	if err == nil && existing != nil {
		return nil, fmt.Errorf("%w: user with this email or phone already exists", errors.ErrDuplicateAction)
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: string(hashedPassword),
		Role:         model.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if err == gorm.ErrDuplicatedKey {
			return nil, fmt.Errorf("%w: user with this email or phone already exists", errors.ErrDuplicateAction)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.welcome.NotifyWelcome(user)
	return user, nil
}

// Login authenticates a user and returns access and refresh tokens.
func (s *authService) Login(ctx context.Context, email, password string) (accessToken, refreshToken string, user *model.User, err error) {
	user, err = s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", "", nil, ErrInvalidCredentials
	}
	if user.PasswordHash == "" {
		// OTP-only account
		return "", "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", nil, ErrInvalidCredentials
	}

	accessToken, refreshToken, err = s.issueTokens(ctx, user)
	if err != nil {
		return "", "", nil, err
	}
	return accessToken, refreshToken, user, nil
}

// OTPLogin verifies an external assertion and resolves or creates the user.
func (s *authService) OTPLogin(ctx context.Context, assertion, name string) (accessToken, refreshToken string, user *model.User, err error) {
	identity, err := s.verifier.VerifyAssertion(ctx, assertion)
	if err != nil {
		return "", "", nil, ErrInvalidAssertion
	}

	user, err = s.userRepo.FindByExternalID(ctx, identity.ExternalID)
	if err == gorm.ErrRecordNotFound {
		user, err = s.resolveOrCreateOTPUser(ctx, identity, name)
	}
	if err != nil {
		return "", "", nil, fmt.Errorf("resolve user: %w", err)
	}

	accessToken, refreshToken, err = s.issueTokens(ctx, user)
	if err != nil {
		return "", "", nil, err
	}
	return accessToken, refreshToken, user, nil
}

func (s *authService) resolveOrCreateOTPUser(ctx context.Context, identity *auth.ExternalIdentity, name string) (*model.User, error) {
	// Link an existing account sharing the asserted email or phone.
	if identity.Email != "" || identity.Phone != "" {
		existing, err := s.userRepo.FindByEmailOrPhone(ctx, identity.Email, identity.Phone)
		if err == nil {
			existing.ExternalID = identity.ExternalID
			if err := s.userRepo.Update(ctx, existing); err != nil {
				return nil, fmt.Errorf("link external id: %w", err)
			}
			return existing, nil
		}
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}
	}

	if name == "" {
		name = "Citizen"
	}
	email := identity.Email
	if email == "" {
		email = identity.ExternalID + "@otp.goodcitizen.local"
	}
	phone := identity.Phone
	if phone == "" {
		// Synthesize a unique placeholder; real phone arrives on profile update.
		phone = uuidDigits(10)
	}

	user := &model.User{
		Name:       name,
		Email:      email,
		Phone:      phone,
		ExternalID: identity.ExternalID,
		Role:       model.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.welcome.NotifyWelcome(user)
	return user, nil
}

// uuidDigits returns n pseudo-random decimal digits derived from a UUID.
func uuidDigits(n int) string {
	id := uuid.New()
	digits := make([]byte, n)
	for i := 0; i < n; i++ {
		digits[i] = '0' + id[i]%10
	}
	return string(digits)
}

func (s *authService) issueTokens(ctx context.Context, user *model.User) (accessToken, refreshToken string, err error) {
	accessToken, err = s.jwtService.GenerateAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return "", "", fmt.Errorf("generate access token: %w", err)
	}

	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return "", "", fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, user.ID.String(), user.Email, string(user.Role), auth.RefreshTokenExpiry); err != nil {
		return "", "", fmt.Errorf("store refresh token: %w", err)
	}
	return accessToken, refreshToken, nil
}

// RefreshToken validates a refresh token and returns a new access token.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	storedUserID, storedEmail, storedRole, err := s.tokenStore.GetRefreshToken(ctx, tokenID)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}
	if storedUserID != claims.UserID || storedEmail != claims.Email {
		return "", ErrInvalidRefreshToken
	}

	userID, err := uuid.Parse(storedUserID)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	accessToken, err = s.jwtService.GenerateAccessToken(userID, storedEmail, storedRole)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, nil
}

// Logout invalidates a refresh token.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return ErrInvalidRefreshToken
	}
	return s.tokenStore.DeleteRefreshToken(ctx, tokenID)
}
