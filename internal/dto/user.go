package dto

// ── user DTOs ──

// CreateUserRequest admin creates an account; the password is generated.
type CreateUserRequest struct {
	FullName string `json:"full_name" binding:"required,min=2,max=200"`
	Username string `json:"username"  binding:"required,min=3,max=100"`
	Role     string `json:"role"      binding:"required,oneof=ADMIN OPERATOR"`
}

// CreateUserResponse the temporary password is returned only here.
type CreateUserResponse struct {
	User         UserResponse `json:"user"`
	TempPassword string       `json:"temp_password"`
}
