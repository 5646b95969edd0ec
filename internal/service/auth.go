package service

import (
	"context"
	"errors"
	"time"

	"github.com/llamacto/llama-gin/internal/constants"
	"github.com/llamacto/llama-gin/internal/dto"
	apperrors "github.com/llamacto/llama-gin/internal/errors"
	"github.com/llamacto/llama-gin/internal/model"
	"github.com/llamacto/llama-gin/internal/repository"
	ctxutil "github.com/llamacto/llama-gin/pkg/context"
	"github.com/llamacto/llama-gin/pkg/logger"
)

// UserStore is the persistence contract the services depend on.
// Lookups return (nil, nil) when the record does not exist.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id uint) (*model.User, error)
	// Insert returns repository.ErrDuplicateEmail when the email is taken.
	Insert(ctx context.Context, email, passwordHash string) (*model.User, error)
	List(ctx context.Context, offset, limit int) ([]model.User, error)
	SetActive(ctx context.Context, id uint, active bool) (*model.User, error)
}

// TokenIssuer issues and validates bearer tokens.
type TokenIssuer interface {
	Issue(subject string, ttl time.Duration) (string, error)
	Validate(token string) (string, error)
}

// dummyPassword is hashed once per service so unknown-email logins pay the
// same bcrypt cost as wrong-password logins.
const dummyPassword = "llama-gin-login-timing"

type AuthService struct {
	store     UserStore
	hasher    PasswordHasher
	tokens    TokenIssuer
	tokenTTL  time.Duration
	dummyHash string
}

func NewAuthService(store UserStore, hasher PasswordHasher, tokens TokenIssuer, tokenTTL time.Duration) *AuthService {
	// on failure Verify still runs against "" and simply returns false
	dummyHash, _ := hasher.Hash(dummyPassword)
	return &AuthService{
		store:     store,
		hasher:    hasher,
		tokens:    tokens,
		tokenTTL:  tokenTTL,
		dummyHash: dummyHash,
	}
}

// Register creates an account and returns an access token for it.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.TokenResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "Register")
	email := repository.NormalizeEmail(req.Email)

	logger.InfoWithContext(ctx, "Registering user").
		String("email", email).
		Log()

	if req.Password != req.ConfirmPassword {
		return nil, apperrors.ErrPasswordMismatch
	}

	existing, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to check email availability").
			String("email", email).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrStoreUnavailable, err)
	}
	if existing != nil {
		logger.WarnWithContext(ctx, "Email already registered").
			String("email", email).
			Log()
		return nil, apperrors.ErrEmailExists
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, ErrPasswordTooLong) {
			return nil, apperrors.WrapError(apperrors.ErrInvalidInput, err)
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user, err := s.store.Insert(ctx, email, hash)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			logger.WarnWithContext(ctx, "Email registered concurrently").
				String("email", email).
				Log()
			return nil, apperrors.ErrEmailExists
		}
		logger.ErrorWithContext(ctx, "Failed to create user").
			String("email", email).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrStoreUnavailable, err)
	}

	token, err := s.issue(ctx, user.Email)
	if err != nil {
		return nil, err
	}

	logger.InfoWithContext(ctx, "User registered successfully").
		String("email", user.Email).
		Uint("user_id", user.ID).
		Log()

	return token, nil
}

// Login exchanges valid credentials for an access token. Unknown email and
// wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*dto.TokenResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "Login")
	email = repository.NormalizeEmail(email)

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to load user for login").
			String("email", email).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrStoreUnavailable, err)
	}

	if user == nil {
		s.hasher.Verify(password, s.dummyHash)
		logger.LogAuth(email, "login", false)
		return nil, apperrors.ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, user.HashedPassword) {
		logger.LogAuth(email, "login", false)
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.issue(ctx, user.Email)
	if err != nil {
		return nil, err
	}

	logger.LogAuth(email, "login", true)
	return token, nil
}

// ValidateToken returns the subject carried by a valid token.
func (s *AuthService) ValidateToken(token string) (string, error) {
	return s.tokens.Validate(token)
}

// CurrentUser resolves a bearer token to an active user.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "CurrentUser")

	subject, err := s.tokens.Validate(token)
	if err != nil {
		logger.DebugWithContext(ctx, "Token rejected").
			Err(err).
			Log()
		return nil, err
	}

	user, err := s.store.FindByEmail(ctx, subject)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrStoreUnavailable, err)
	}
	if user == nil {
		logger.WarnWithContext(ctx, "Token subject no longer exists").
			String("email", subject).
			Log()
		return nil, apperrors.ErrInvalidToken
	}
	if !user.IsActive {
		return nil, apperrors.ErrInactiveUser
	}

	return user, nil
}

func (s *AuthService) issue(ctx context.Context, subject string) (*dto.TokenResponse, error) {
	accessToken, err := s.tokens.Issue(subject, s.tokenTTL)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to sign token").
			String("email", subject).
			Err(err).
			Log()
		if apperrors.IsDomainError(err) {
			return nil, err
		}
		return nil, apperrors.WrapError(apperrors.ErrTokenSigning, err)
	}

	return &dto.TokenResponse{
		AccessToken: accessToken,
		TokenType:   constants.TokenTypeBearer,
	}, nil
}
