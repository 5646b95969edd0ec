package model

import "time"

type User struct {
	ID             uint      `gorm:"primaryKey"`
	Email          string    `gorm:"column:email;uniqueIndex;size:255;not null"`
	HashedPassword string    `gorm:"column:hashed_password;not null" json:"-"`
	IsActive       bool      `gorm:"column:is_active;default:true;not null"`
	IsSuperuser    bool      `gorm:"column:is_superuser;default:false;not null"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}
