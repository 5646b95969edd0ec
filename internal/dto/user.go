package dto

// UserResponse is the outward user representation. It never carries the password hash.
type UserResponse struct {
	ID          uint   `json:"id"`
	Email       string `json:"email"`
	IsActive    bool   `json:"is_active"`
	IsSuperuser bool   `json:"is_superuser"`
}

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=72"`
}

type UpdateStatusRequest struct {
	IsActive *bool `json:"is_active" form:"is_active" binding:"required"`
}
