package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/darsban/core"
)

var (
	// errors
	ErrNotFound           = errors.New("user not found")
	ErrUsernameExists     = errors.New("a user with this username already exists")
	ErrInvalidCredentials = errors.New("wrong username or password")

	nowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateUser(ctx context.Context, usr User) (User, error)
		// QueryAllUsers returns users in insertion order.
		QueryAllUsers(ctx context.Context) ([]User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByUsername(ctx context.Context, username string) (User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkUniqueness(ctx context.Context, uname string) error {
	_, err := svc.repo.GetUserByUsername(ctx, uname)
	switch err {
	case nil:
		return core.NewValidationError(ErrUsernameExists, core.FieldError{Field: "username", Error: ErrUsernameExists.Error()})
	case ErrNotFound:
		return nil
	default:
		return err
	}
}

// Authenticate returns the user whose username and password both match exactly.
// Any mismatch yields ErrInvalidCredentials.
func (svc *Service) Authenticate(ctx context.Context, uname, pwd string) (User, error) {
	usr, err := svc.repo.GetUserByUsername(ctx, uname)
	if err != nil {
		if err == ErrNotFound {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return User{}, ErrInvalidCredentials
	}
	usr.LastLogin = nowFunc().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}

// Create stores a new user. nu must have been validated.
func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	usr := User{
		ID:        uuid.New().String(),
		Name:      nu.Name,
		Username:  nu.Username,
		Role:      nu.Role,
		School:    nu.School,
		Student:   nu.Student,
		CreatedAt: nowFunc().UTC(),
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}
	return svc.repo.CreateUser(ctx, usr)
}

func (svc *Service) QueryAll(ctx context.Context) ([]User, error) {
	return svc.repo.QueryAllUsers(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByUsername(ctx context.Context, uname string) (User, error) {
	return svc.repo.GetUserByUsername(ctx, uname)
}
