package user

import (
	"time"

	errors "github.com/frahmantamala/asset-custody/internal"
	userDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/user"
)

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleUser    = "user"
)

var AllowedRoles = []string{RoleAdmin, RoleManager, RoleUser}

const MaxUsernameLength = 50

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanMutate reports whether the role may change directories and the ledger.
func (u *User) CanMutate() bool {
	return u.Role == RoleAdmin || u.Role == RoleManager
}

var (
	ErrUserNotFound = errors.NewNotFoundError("User not found", errors.ErrCodeUserNotFound)
	ErrSelfDelete   = errors.NewForbiddenError("Users cannot delete their own account", errors.ErrCodeSelfDelete)
	ErrDuplicate    = errors.NewConflictError("Username or email already exists", errors.ErrCodeDuplicateRecord)
)

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FullName:     u.FullName,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FullName:     u.FullName,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
