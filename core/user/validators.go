package user

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/chamadaweb/chamada/core"
)

var (
	// custom validation tags & texts
	userRoleTag  = "userrole"
	userRoleText = "{0} deve ser admin, instrutor, pedagogo ou monitor"
)

// InitValidators registers the User validation tags. core.InitValidators must run first.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(userRoleTag, userRoleValidation)
	core.RegisterCustomTranslation(validate, translator, userRoleTag, userRoleText)
}

// userRoleValidation only allows known roles.
func userRoleValidation(fl validator.FieldLevel) bool {
	role := fl.Field().String()
	for _, r := range AllRoles {
		if role == r {
			return true
		}
	}
	return false
}
