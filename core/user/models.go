package user

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
)

// Role is the closed set of roles a User can hold.
type Role string

const (
	RoleStudent   Role = "student"
	RoleStaff     Role = "staff"
	RoleProfessor Role = "professor"
)

var AllRoles = []Role{RoleStudent, RoleStaff, RoleProfessor}

// ParseRole maps s to one of AllRoles.
func ParseRole(s string) (Role, bool) {
	switch r := Role(core.CleanString(s, true /* lower */)); r {
	case RoleStudent, RoleStaff, RoleProfessor:
		return r, true
	default:
		return "", false
	}
}

func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

func (r Role) String() string { return string(r) }

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Role         Role      `json:"role"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

func (u User) IsStudent() bool { return u.Role == RoleStudent }

// PasswordHasher hashes and verifies passwords. Implementations live outside the core.
type PasswordHasher interface {
	Hash(pwd string) ([]byte, error)
	Verify(pwd string, hash []byte) bool
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Username        string `json:"username" validate:"required,min=3,max=64,alphanum_"`
	Role            Role   `json:"role" validate:"required,role"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (nu *NewUser) Validate(validate *validator.Validate, svc *Service) error {
	nu.Username = core.CleanString(nu.Username, true /* lower */)
	nu.Role = Role(core.CleanString(string(nu.Role), true /* lower */))

	if err := validate.Struct(nu); err != nil {
		return err
	}
	return svc.CheckUniqueness(nu.Username)
}

// ChangePassword defines the payload used to set a new password.
type ChangePassword struct {
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`

	username string // for the similarity check
}

func (cp *ChangePassword) Validate(validate *validator.Validate, usr User) error {
	cp.username = usr.Username
	return validate.Struct(cp)
}

type GetFilter struct {
	ID       int
	Username string
}

type QueryFilter struct {
	Search string `query:"search"`
	Roles  []Role `query:"role"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Roles == nil
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search, true /* lower */)
}
