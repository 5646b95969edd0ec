package service

import (
	"context"
	"errors"

	"github.com/llamacto/llama-gin/internal/dto"
	apperrors "github.com/llamacto/llama-gin/internal/errors"
	"github.com/llamacto/llama-gin/internal/model"
	"github.com/llamacto/llama-gin/internal/repository"
	ctxutil "github.com/llamacto/llama-gin/pkg/context"
	"github.com/llamacto/llama-gin/pkg/logger"
)

type UserService struct {
	store  UserStore
	hasher PasswordHasher
	cache  *UserCache
}

// NewUserService builds the user service. cache may be nil.
func NewUserService(store UserStore, hasher PasswordHasher, cache *UserCache) *UserService {
	return &UserService{
		store:  store,
		hasher: hasher,
		cache:  cache,
	}
}

func ToUserResponse(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		IsActive:    user.IsActive,
		IsSuperuser: user.IsSuperuser,
	}
}

func (s *UserService) List(ctx context.Context, skip, limit int) ([]dto.UserResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "ListUsers")

	users, err := s.store.List(ctx, skip, limit)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to list users").
			Int("skip", skip).
			Int("limit", limit).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrStoreUnavailable, err)
	}

	res := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		res = append(res, ToUserResponse(&users[i]))
	}

	logger.DebugWithContext(ctx, "Users retrieved successfully").
		Int("skip", skip).
		Int("limit", limit).
		Int("returned_count", len(res)).
		Log()

	return res, nil
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*dto.UserResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "GetUserByID")

	if cached, ok := s.cache.Get(ctx, id); ok {
		logger.DebugWithContext(ctx, "User served from cache").
			Uint("user_id", id).
			Log()
		return cached, nil
	}

	gen := s.cache.Generation(id)
	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to get user by ID").
			Uint("user_id", id).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrStoreUnavailable, err)
	}
	if user == nil {
		logger.InfoWithContext(ctx, "User not found").
			Uint("user_id", id).
			Log()
		return nil, apperrors.ErrUserNotFound
	}

	res := ToUserResponse(user)
	s.cache.SetIfCurrent(ctx, &res, gen)
	return &res, nil
}

// Create adds an account without issuing a token.
func (s *UserService) Create(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "CreateUser")
	email := repository.NormalizeEmail(req.Email)

	logger.InfoWithContext(ctx, "Creating new user").
		String("email", email).
		Log()

	existing, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrStoreUnavailable, err)
	}
	if existing != nil {
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
			return nil, apperrors.ErrEmailExists
		}
		logger.ErrorWithContext(ctx, "Failed to create user").
			String("email", email).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrStoreUnavailable, err)
	}

	logger.InfoWithContext(ctx, "User created successfully").
		String("email", user.Email).
		Uint("user_id", user.ID).
		Log()

	res := ToUserResponse(user)
	return &res, nil
}

func (s *UserService) SetActive(ctx context.Context, id uint, active bool) (*dto.UserResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "SetUserActive")

	user, err := s.store.SetActive(ctx, id, active)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to update user status").
			Uint("user_id", id).
			Bool("is_active", active).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrStoreUnavailable, err)
	}
	s.cache.Invalidate(ctx, id)

	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}

	logger.InfoWithContext(ctx, "User status updated").
		Uint("user_id", id).
		Bool("is_active", active).
		Log()

	res := ToUserResponse(user)
	return &res, nil
}
