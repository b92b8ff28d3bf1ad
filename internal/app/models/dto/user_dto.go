package dto

// CreateUserRequest is the body of POST /users
type CreateUserRequest struct {
	UserID   string `json:"userId" binding:"omitempty,max=64,entity_id"`
	Name     string `json:"name" binding:"required,not_blank,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,min=3,max=100"`
	Role     string `json:"role" binding:"required,oneof=admin counselor student"`
	Password string `json:"password" binding:"required,min=8"`
}

// UpdateUserRequest is the body of PUT /users/{user_id}; empty fields are left unchanged
type UpdateUserRequest struct {
	Name  *string `json:"name" binding:"omitempty,max=255"`
	Email *string `json:"email" binding:"omitempty,email"`
	Role  *string `json:"role" binding:"omitempty,oneof=admin counselor student"`
}
