package user

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"strings"

	errors "github.com/frahmantamala/asset-custody/internal"
	"github.com/frahmantamala/asset-custody/internal/audit"
	"github.com/frahmantamala/asset-custody/internal/core/common/pagination"
	"github.com/frahmantamala/asset-custody/internal/core/common/validation"
	userDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/user"
	"github.com/frahmantamala/asset-custody/internal/core/deletion"
	"github.com/frahmantamala/asset-custody/internal/core/events"
	"github.com/frahmantamala/asset-custody/internal/store"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RepositoryAPI interface {
	deletion.Target
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error)
	UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error)
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
	List(ctx context.Context, filter ListUsersFilter) ([]*userDatamodel.User, int64, error)
	Create(ctx context.Context, user *userDatamodel.User) error
	Update(ctx context.Context, user *userDatamodel.User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

// Credentials is the fixed initial password handed to new and reset accounts.
type Credentials struct {
	DefaultPassword string
	BCryptCost      int
}

type Service struct {
	repo        RepositoryAPI
	tx          store.Transactor
	recorder    audit.Recorder
	publisher   events.Publisher
	policy      deletion.Policy
	credentials Credentials
	logger      *slog.Logger
}

func NewService(repo RepositoryAPI, tx store.Transactor, recorder audit.Recorder, publisher events.Publisher, credentials Credentials, logger *slog.Logger) *Service {
	if credentials.BCryptCost == 0 {
		credentials.BCryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:        repo,
		tx:          tx,
		recorder:    recorder,
		publisher:   publisher,
		policy:      deletion.NewPolicy(deletion.OutcomeDeactivated),
		credentials: credentials,
		logger:      logger,
	}
}

func normalize(username, email, role string) (string, string, string) {
	return strings.TrimSpace(username), strings.ToLower(strings.TrimSpace(email)), strings.TrimSpace(role)
}

// validate runs every field rule and both uniqueness queries, returning all violations together.
func (s *Service) validate(ctx context.Context, username, email, role string, excludeID int64) error {
	v := validation.NewValidator()
	v.Field("username", username).Required().MaxLength(MaxUsernameLength)
	v.Field("email", email).Email().MaxLength(255)
	v.Field("role", role).OneOf(AllowedRoles...)

	if username != "" {
		taken, err := s.repo.UsernameTaken(ctx, username, excludeID)
		if err != nil {
			return fmt.Errorf("check username: %w", err)
		}
		if taken {
			v.Add("username", fmt.Sprintf("username %q is already taken", username), errors.ErrCodeDuplicate)
		}
	}
	if email != "" {
		taken, err := s.repo.EmailTaken(ctx, email, excludeID)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if taken {
			v.Add("email", fmt.Sprintf("email %q is already registered", email), errors.ErrCodeDuplicate)
		}
	}

	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

func (s *Service) hashDefaultPassword() (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(s.credentials.DefaultPassword), s.credentials.BCryptCost)
	if err != nil {
		return "", errors.NewInternalError("failed to hash password", err)
	}
	return string(hash), nil
}

func (s *Service) Create(ctx context.Context, actingUserID int64, dto CreateUserDTO) (*CreateUserResult, error) {
	username, email, role := normalize(dto.Username, dto.Email, dto.Role)

	hash, err := s.hashDefaultPassword()
	if err != nil {
		return nil, err
	}

	row := &userDatamodel.User{
		Username:     username,
		Email:        email,
		FullName:     strings.TrimSpace(dto.FullName),
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.validate(ctx, username, email, role, 0); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, row); err != nil {
			if stdErrors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicate.WithCause(err)
			}
			return fmt.Errorf("create user: %w", err)
		}
		return s.recorder.Record(ctx, actingUserID, audit.ActionCreate, audit.EntityUser, row.ID, row.Username)
	})
	if err != nil {
		s.logger.Warn("user create rejected", "username", username, "error", err)
		return nil, err
	}

	s.logger.Info("user created", "user_id", row.ID, "username", row.Username, "role", row.Role, "actor", actingUserID)
	s.publisher.Publish(ctx, events.NewDirectoryChangedEvent(audit.EntityUser, row.ID, audit.ActionCreate, actingUserID))

	return &CreateUserResult{
		User:            FromDataModel(row),
		InitialPassword: s.credentials.DefaultPassword,
	}, nil
}

func (s *Service) Update(ctx context.Context, actingUserID, id int64, dto UpdateUserDTO) (*User, error) {
	username, email, role := normalize(dto.Username, dto.Email, dto.Role)

	var updated *userDatamodel.User
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		row, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}
		if row == nil {
			return ErrUserNotFound
		}

		if err := s.validate(ctx, username, email, role, id); err != nil {
			return err
		}

		row.Username = username
		row.Email = email
		row.FullName = strings.TrimSpace(dto.FullName)
		row.Role = role
		if dto.IsActive != nil {
			row.IsActive = *dto.IsActive
		}

		if err := s.repo.Update(ctx, row); err != nil {
			if stdErrors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicate.WithCause(err)
			}
			return fmt.Errorf("update user: %w", err)
		}
		updated = row
		return s.recorder.Record(ctx, actingUserID, audit.ActionUpdate, audit.EntityUser, id, row.Username)
	})
	if err != nil {
		s.logger.Warn("user update rejected", "user_id", id, "error", err)
		return nil, err
	}

	s.logger.Info("user updated", "user_id", id, "actor", actingUserID)
	s.publisher.Publish(ctx, events.NewDirectoryChangedEvent(audit.EntityUser, id, audit.ActionUpdate, actingUserID))
	return FromDataModel(updated), nil
}

// Delete removes the account, or deactivates it when ledger history names it as issuer or closer.
func (s *Service) Delete(ctx context.Context, actingUserID, id int64) (*deletion.Result, error) {
	if id == actingUserID {
		return nil, ErrSelfDelete
	}

	var result *deletion.Result
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		row, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}
		if row == nil {
			return ErrUserNotFound
		}

		result, err = s.policy.Apply(ctx, s.repo, id)
		if err != nil {
			return err
		}

		action := audit.ActionDelete
		if result.Outcome != deletion.OutcomeHardDeleted {
			action = audit.ActionDeactivate
		}
		return s.recorder.Record(ctx, actingUserID, action, audit.EntityUser, id, row.Username)
	})
	if err != nil {
		s.logger.Warn("user delete rejected", "user_id", id, "error", err)
		return nil, err
	}

	s.logger.Info("user deleted", "user_id", id, "outcome", result.Outcome, "references", result.References, "actor", actingUserID)
	s.publisher.Publish(ctx, events.NewDirectoryChangedEvent(audit.EntityUser, id, string(result.Outcome), actingUserID))
	return result, nil
}

// ResetPassword puts the account back on the default password. Calling it twice is harmless.
func (s *Service) ResetPassword(ctx context.Context, actingUserID, id int64) (*ResetPasswordResult, error) {
	hash, err := s.hashDefaultPassword()
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		row, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}
		if row == nil {
			return ErrUserNotFound
		}
		if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
			return fmt.Errorf("update password: %w", err)
		}
		return s.recorder.Record(ctx, actingUserID, audit.ActionResetPassword, audit.EntityUser, id, "")
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user password reset", "user_id", id, "actor", actingUserID)
	return &ResetPasswordResult{UserID: id, NewPassword: s.credentials.DefaultPassword}, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if row == nil {
		return nil, ErrUserNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) List(ctx context.Context, filter ListUsersFilter) (*ListUsersResult, error) {
	filter.Limit, filter.Offset = pagination.Normalize(filter.Limit, filter.Offset)
	filter.Search = strings.TrimSpace(filter.Search)

	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]*User, 0, len(rows))
	for _, row := range rows {
		users = append(users, FromDataModel(row))
	}
	return &ListUsersResult{Users: users, Total: total}, nil
}
