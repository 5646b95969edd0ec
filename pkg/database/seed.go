package database

import (
	"context"
	"errors"
	"strings"

	"github.com/llamacto/llama-gin/internal/model"
	"gorm.io/gorm"
)

// Hasher produces the stored password hash for the seeded admin.
type Hasher interface {
	Hash(plaintext string) (string, error)
}

// SeedAdmin describes the optional bootstrap superuser.
type SeedAdmin struct {
	Email    string
	Password string
	Hasher   Hasher
}

// Seed creates initial data for the database. It is a no-op when no admin is configured.
func Seed(ctx context.Context, db *gorm.DB, admin SeedAdmin) (bool, error) {
	if admin.Email == "" || admin.Password == "" {
		return false, nil
	}
	return SeedSuperuser(ctx, db, admin)
}

// SeedSuperuser creates the admin user if not exists
func SeedSuperuser(ctx context.Context, db *gorm.DB, admin SeedAdmin) (bool, error) {
	if admin.Hasher == nil {
		return false, errors.New("seed admin requires a password hasher")
	}
	email := strings.ToLower(strings.TrimSpace(admin.Email))

	var count int64
	if err := db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	hashedPassword, err := admin.Hasher.Hash(admin.Password)
	if err != nil {
		return false, err
	}

	user := model.User{
		Email:          email,
		HashedPassword: hashedPassword,
		IsActive:       true,
		IsSuperuser:    true,
	}

	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return false, err
	}
	return true, nil
}
