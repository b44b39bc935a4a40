package postgres

import (
	"context"
	"errors"

	assignmentDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/assignment"
	userDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/user"
	"github.com/frahmantamala/asset-custody/internal/store"
	"github.com/frahmantamala/asset-custody/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

var _ user.RepositoryAPI = (*UserRepository)(nil)

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := store.Conn(ctx, r.db).Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := store.Conn(ctx, r.db).Where("LOWER(username) = LOWER(?)", username).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error) {
	return r.exists(ctx, "LOWER(username) = LOWER(?)", username, excludeID)
}

func (r *UserRepository) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	return r.exists(ctx, "LOWER(email) = LOWER(?)", email, excludeID)
}

func (r *UserRepository) exists(ctx context.Context, cond string, value string, excludeID int64) (bool, error) {
	var count int64
	err := store.Conn(ctx, r.db).Model(&userDatamodel.User{}).
		Where(cond, value).
		Where("id <> ?", excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) List(ctx context.Context, filter user.ListUsersFilter) ([]*userDatamodel.User, int64, error) {
	q := store.Conn(ctx, r.db).Model(&userDatamodel.User{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("LOWER(username) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?) OR LOWER(full_name) LIKE LOWER(?)", like, like, like)
	}
	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}
	if filter.Active != nil {
		q = q.Where("is_active = ?", *filter.Active)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []*userDatamodel.User
	err := q.Order("username ASC").Limit(filter.Limit).Offset(filter.Offset).Find(&users).Error
	return users, total, err
}

func (r *UserRepository) Create(ctx context.Context, u *userDatamodel.User) error {
	return store.Conn(ctx, r.db).Create(u).Error
}

func (r *UserRepository) Update(ctx context.Context, u *userDatamodel.User) error {
	return store.Conn(ctx, r.db).Model(u).
		Select("username", "email", "full_name", "role", "is_active", "updated_at").
		Updates(u).Error
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return store.Conn(ctx, r.db).Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash).Error
}

// CountReferences counts assignments the user issued or closed.
func (r *UserRepository) CountReferences(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := store.Conn(ctx, r.db).Model(&assignmentDatamodel.Assignment{}).
		Where("assigned_by_user_id = ? OR returned_by_user_id = ?", id, id).
		Count(&count).Error
	return count, err
}

func (r *UserRepository) HardDelete(ctx context.Context, id int64) error {
	return store.Conn(ctx, r.db).Delete(&userDatamodel.User{}, id).Error
}

func (r *UserRepository) SoftDelete(ctx context.Context, id int64) error {
	return store.Conn(ctx, r.db).Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}
