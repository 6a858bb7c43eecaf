package user

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/chamadaweb/chamada/core"
)

// Roles
const (
	RoleAdmin      = "admin"
	RoleInstructor = "instrutor"
	RolePedagogue  = "pedagogo"
	RoleMonitor    = "monitor"
)

// Statuses. A rejected User is deleted, so there is no stored "rejected" status.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
)

var AllRoles = []string{RoleAdmin, RoleInstructor, RolePedagogue, RoleMonitor}

// User is an account of the system. Password never leaves the storage layer.
type User struct {
	ID            string     `json:"id" bson:"id"`
	Name          string     `json:"name" bson:"name"`
	Email         string     `json:"email" bson:"email"`
	CPF           string     `json:"cpf" bson:"cpf"`
	Password      string     `json:"-" bson:"password"`
	Role          string     `json:"role" bson:"role"`
	UnitID        *string    `json:"unit_id" bson:"unit_id"`
	Unit          *string    `json:"unit" bson:"unit"` // name snapshot taken when UnitID was set
	Status        string     `json:"status" bson:"status"`
	PasswordReset bool       `json:"password_reset,omitempty" bson:"password_reset,omitempty"`
	CreatedAt     time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
	ApprovedAt    *time.Time `json:"approved_at,omitempty" bson:"approved_at,omitempty"`
}

func (u User) IsApproved() bool { return u.Status == StatusApproved }

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// NewUser contains information needed to create a new User, by self-registration or by an admin.
type NewUser struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	CPF      string `json:"cpf" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,userrole"`
	UnitID   string `json:"unit_id"`
}

func (nu *NewUser) Validate(validate *validator.Validate, translator ut.Translator) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email)
	nu.CPF = core.CleanString(nu.CPF)
	nu.Role = core.CleanString(nu.Role)
	nu.UnitID = core.CleanString(nu.UnitID)

	return core.ValidateStruct(validate, translator, nu, msgAllFieldsRequired)
}

// UpdateUser defines what information may be provided to modify an existing User.
type UpdateUser struct {
	Name   string  `json:"name" validate:"required"`
	Email  string  `json:"email" validate:"required"`
	Role   string  `json:"role" validate:"required,userrole"`
	UnitID *string `json:"unit_id"`
}

func (uu *UpdateUser) Validate(validate *validator.Validate, translator ut.Translator) error {
	uu.Name = core.CleanString(uu.Name)
	uu.Email = core.CleanString(uu.Email)
	uu.Role = core.CleanString(uu.Role)

	return core.ValidateStruct(validate, translator, uu, msgUpdateRequired)
}

type LoginCredentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (lc *LoginCredentials) Validate(validate *validator.Validate, translator ut.Translator) error {
	lc.Email = core.CleanString(lc.Email)
	return core.ValidateStruct(validate, translator, lc, msgLoginRequired)
}

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required"`
}

func (pr *PasswordResetRequest) Validate(validate *validator.Validate, translator ut.Translator) error {
	pr.Email = core.CleanString(pr.Email)
	return core.ValidateStruct(validate, translator, pr, msgEmailRequired)
}

// GetFilter looks up a single User; set fields are ANDed.
type GetFilter struct {
	ID     string
	Email  string
	CPF    string
	Status string
}

type QueryFilter struct {
	Status string
}
