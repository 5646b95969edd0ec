package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/llamacto/llama-gin/internal/model"
	ctxutil "github.com/llamacto/llama-gin/pkg/context"
	"github.com/llamacto/llama-gin/pkg/logger"
	"gorm.io/gorm"
)

// ErrDuplicateEmail is returned by Insert when the unique email index rejects the row.
var ErrDuplicateEmail = errors.New("repository: duplicate email")

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// NormalizeEmail is the canonical form used for lookup and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FindByEmail returns (nil, nil) when no user has the given email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "FindByEmail")
	email = NormalizeEmail(email)

	logger.DebugWithContext(ctx, "Getting user by email").
		String("email", email).
		Log()

	start := time.Now()
	var user model.User
	result := r.db.WithContext(ctx).Where("email = ?", email).Limit(1).Find(&user)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to get user by email").
			String("email", email).
			Duration(duration).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		logger.DebugWithContext(ctx, "No user with email").
			String("email", email).
			Duration(duration).
			Log()
		return nil, nil
	}

	logger.DebugWithContext(ctx, "User retrieved successfully by email").
		String("email", email).
		Uint("user_id", user.ID).
		Duration(duration).
		Log()

	return &user, nil
}

// FindByID returns (nil, nil) when the id does not exist.
func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "FindByID")

	logger.DebugWithContext(ctx, "Getting user by ID").
		Uint("user_id", id).
		Log()

	if err := ctx.Err(); err != nil {
		logger.WarnWithContext(ctx, "Context cancelled before query").
			Err(err).
			Log()
		return nil, err
	}

	start := time.Now()
	var user model.User
	result := r.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&user)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to get user by ID").
			Uint("user_id", id).
			Duration(duration).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		return nil, nil
	}

	logger.DebugWithContext(ctx, "User retrieved successfully").
		Uint("user_id", id).
		Duration(duration).
		Log()

	return &user, nil
}

// Insert creates an active, non-superuser account.
func (r *UserRepository) Insert(ctx context.Context, email, passwordHash string) (*model.User, error) {
	return r.create(ctx, &model.User{
		Email:          NormalizeEmail(email),
		HashedPassword: passwordHash,
		IsActive:       true,
		IsSuperuser:    false,
	})
}

func (r *UserRepository) create(ctx context.Context, user *model.User) (*model.User, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "Insert")

	logger.DebugWithContext(ctx, "Creating new user").
		String("email", user.Email).
		Log()

	start := time.Now()
	result := r.db.WithContext(ctx).Create(user)
	duration := time.Since(start)

	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			logger.WarnWithContext(ctx, "Duplicate email rejected by store").
				String("email", user.Email).
				Duration(duration).
				Log()
			return nil, ErrDuplicateEmail
		}
		logger.ErrorWithContext(ctx, "Failed to create user").
			String("email", user.Email).
			Duration(duration).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	logger.InfoWithContext(ctx, "User created successfully").
		String("email", user.Email).
		Uint("user_id", user.ID).
		Duration(duration).
		Log()

	return user, nil
}

// List returns users ordered by id.
func (r *UserRepository) List(ctx context.Context, offset, limit int) ([]model.User, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "List")

	logger.DebugWithContext(ctx, "Getting users").
		Int("offset", offset).
		Int("limit", limit).
		Log()

	start := time.Now()
	users := make([]model.User, 0, limit)
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error
	duration := time.Since(start)

	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to fetch users").
			Int("offset", offset).
			Int("limit", limit).
			Duration(duration).
			Err(err).
			Log()
		return nil, err
	}

	logger.DebugWithContext(ctx, "Users retrieved successfully").
		Int("offset", offset).
		Int("limit", limit).
		Int("returned_count", len(users)).
		Duration(duration).
		Log()

	return users, nil
}

// SetActive updates is_active and returns the refreshed row, or (nil, nil) for an unknown id.
func (r *UserRepository) SetActive(ctx context.Context, id uint, active bool) (*model.User, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "SetActive")

	logger.DebugWithContext(ctx, "Updating user status").
		Uint("user_id", id).
		Bool("is_active", active).
		Log()

	start := time.Now()
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("is_active", active)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update user status").
			Uint("user_id", id).
			Duration(duration).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		// zero rows: unknown id, or an unchanged value on some drivers
		return r.FindByID(ctx, id)
	}

	logger.InfoWithContext(ctx, "User status updated successfully").
		Uint("user_id", id).
		Bool("is_active", active).
		Duration(duration).
		Log()

	return r.FindByID(ctx, id)
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
