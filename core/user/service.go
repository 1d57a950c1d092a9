package user

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
)

var (
	// errors
	ErrNotFound          = errors.New("user not found")
	ErrUsernameExists    = errors.New("a user with this username already exists")
	ErrInvalidCredential = errors.New("invalid credentials")

	nowFunc = time.Now // mockable
)

type Repository interface {
	CheckUsernameUniqueness(ctx context.Context, username string, excludedUsers ...User) error
	CreateUser(ctx context.Context, usr User) (User, error)
	GetUser(ctx context.Context, filter GetFilter) (User, error)
	// QueryUsers applies AND operation on available QueryFilter fields.
	// QueryFilter.Search does a case-insensitive match on User.Username.
	QueryUsers(ctx context.Context, filter *QueryFilter) ([]User, error)
	UpdateUser(ctx context.Context, usr User) (User, error)
}

type Service struct {
	repo   Repository
	hasher PasswordHasher
}

func NewService(repo Repository, hasher PasswordHasher) *Service {
	return &Service{repo: repo, hasher: hasher}
}

func (svc *Service) CheckUniqueness(uname string, exclUsers ...User) error {
	if err := svc.repo.CheckUsernameUniqueness(context.Background(), uname, exclUsers...); err != nil {
		if errors.Cause(err) == ErrUsernameExists {
			return core.NewValidationError(err, core.FieldError{Field: "username", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	now := nowFunc().UTC()
	usr := User{
		Username:  nu.Username,
		Role:      nu.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	hash, err := svc.hasher.Hash(nu.Password)
	if err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	usr.PasswordHash = hash
	return svc.repo.CreateUser(ctx, usr)
}

func (svc *Service) GetByID(ctx context.Context, id int) (User, error) {
	return svc.repo.GetUser(ctx, GetFilter{ID: id})
}

func (svc *Service) GetByUsername(ctx context.Context, uname string) (User, error) {
	return svc.repo.GetUser(ctx, GetFilter{Username: core.CleanString(uname, true /* lower */)})
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter) ([]User, error) {
	if filter != nil {
		filter.Clean()
	}
	return svc.repo.QueryUsers(ctx, filter)
}

// Authenticate returns the User matching the username & password.
// Unknown usernames and wrong passwords are not told apart.
func (svc *Service) Authenticate(ctx context.Context, uname, pwd string) (User, error) {
	usr, err := svc.GetByUsername(ctx, uname)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return User{}, ErrInvalidCredential
		}
		return User{}, errors.Wrap(err, "finding user by username")
	}
	if !svc.hasher.Verify(pwd, usr.PasswordHash) {
		return User{}, ErrInvalidCredential
	}
	return usr, nil
}

// SetPassword sets a new password on the User with given id, without any permission check.
// Callers are expected to have authorized the change (see ChangePassword or the admin cli).
func (svc *Service) SetPassword(ctx context.Context, id int, pwd string) (User, error) {
	usr, err := svc.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	hash, err := svc.hasher.Hash(pwd)
	if err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	usr.PasswordHash = hash
	usr.UpdatedAt = nowFunc().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}
