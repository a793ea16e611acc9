package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"recordkeeper/src/core/domain"
	"recordkeeper/src/core/ports"
	"recordkeeper/src/core/record"
)

// UserService implements the user directory on a generic record repository.
type UserService struct {
	users   ports.RecordRepository[domain.User]
	classes ports.ErrorClassifier
	log     *slog.Logger
}

func NewUserService(users ports.RecordRepository[domain.User], classes ports.ErrorClassifier, log *slog.Logger) *UserService {
	return &UserService{users: users, classes: classes, log: log}
}

// UserInput carries the writable user attributes.
type UserInput struct {
	Name  string
	Email string
	Age   int64
}

// Create validates and stores a new user.
func (s *UserService) Create(ctx context.Context, in UserInput) (*domain.User, error) {
	u, err := domain.NewUser(in.Name, in.Email, in.Age)
	if err != nil {
		return nil, err
	}
	if err := s.users.Insert(ctx, u); err != nil {
		return nil, s.translate("create user", err)
	}
	s.log.Info("user created", "user_id", u.ID)
	return u, nil
}

// Get loads one user.
func (s *UserService) Get(ctx context.Context, rawID string) (*domain.User, error) {
	id, err := domain.ParseUserID(rawID)
	if err != nil {
		return nil, err
	}
	u, found, err := s.users.SelectByID(ctx, record.Text(id))
	if err != nil {
		return nil, s.translate("get user", err)
	}
	if !found {
		return nil, domain.NewNotFoundError("user")
	}
	return &u, nil
}

// List returns every user, or only those with the given email.
func (s *UserService) List(ctx context.Context, email string) ([]domain.User, error) {
	var (
		users []domain.User
		err   error
	)
	if email = strings.TrimSpace(email); email != "" {
		users, err = s.users.SelectByCondition(ctx, record.Where("email = ?", record.Text(email)))
	} else {
		users, err = s.users.SelectAll(ctx)
	}
	if err != nil {
		return nil, s.translate("list users", err)
	}
	return users, nil
}

// Update replaces the writable attributes of an existing user.
func (s *UserService) Update(ctx context.Context, rawID string, in UserInput) (*domain.User, error) {
	u, err := s.Get(ctx, rawID)
	if err != nil {
		return nil, err
	}

	u.Name = strings.TrimSpace(in.Name)
	u.Email = strings.TrimSpace(in.Email)
	u.Age = in.Age
	if err := u.Validate(); err != nil {
		return nil, err
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, s.translate("update user", err)
	}
	s.log.Info("user updated", "user_id", u.ID)
	return u, nil
}

// Delete removes an existing user.
func (s *UserService) Delete(ctx context.Context, rawID string) error {
	u, err := s.Get(ctx, rawID)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, u); err != nil {
		return s.translate("delete user", err)
	}
	s.log.Info("user deleted", "user_id", u.ID)
	return nil
}

// translate maps repository failures onto domain errors.
func (s *UserService) translate(action string, err error) error {
	switch {
	case s.classes != nil && s.classes.IsUniqueViolation(err):
		return domain.NewConflictError("email already registered")
	case errors.Is(err, record.ErrConnectionUnavailable):
		s.log.Error("database unavailable", "action", action, "error", err)
		return domain.NewUnavailableError("database unavailable")
	case record.IsMissingIdentifier(err), record.IsNoInsertableFields(err):
		return domain.NewValidationError("id", err.Error())
	case record.IsRowMapping(err):
		s.log.Error("stored user does not match the users table mapping", "action", action, "error", err)
		return fmt.Errorf("%s: %w", action, err)
	default:
		s.log.Error("repository failure", "action", action, "error", err)
		return fmt.Errorf("%s: %w", action, err)
	}
}
