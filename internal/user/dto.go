package user

type CreateUserDTO struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// UpdateUserDTO replaces the profile fields. Credentials are never touched by an update.
type UpdateUserDTO struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	IsActive *bool  `json:"is_active,omitempty"`
}

// CreateUserResult carries the initial password; it is shown to the caller once and never stored in clear.
type CreateUserResult struct {
	User            *User  `json:"user"`
	InitialPassword string `json:"initial_password"`
}

type ResetPasswordResult struct {
	UserID      int64  `json:"user_id"`
	NewPassword string `json:"new_password"`
}

type ListUsersFilter struct {
	Search string
	Role   string
	Active *bool
	Limit  int
	Offset int
}

type ListUsersResult struct {
	Users []*User `json:"users"`
	Total int64   `json:"total"`
}
