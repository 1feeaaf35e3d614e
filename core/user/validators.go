package user

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/alumniconnect/alumniconnect/core"
)

var (
	allRolesTag  = "allroles"
	allRolesText = "invalid roles"

	exclusiveRolesTag  = "exclusiveroles"
	exclusiveRolesText = "a user cannot be both a student and an alumni"

	// password policy
	pwdMinLen     = 8
	pwdMinLenTag  = "pwdminlen"
	pwdMinLenText = fmt.Sprintf("password must contain at least %d characters", pwdMinLen)

	pwdNoSpaceTag  = "pwdnospace"
	pwdNoSpaceText = "password must not contain whitespace"

	pwdNotAllNumTag  = "pwdnotallnum"
	pwdNotAllNumText = "password cannot be entirely numeric"
)

// RegisterValidators registers the user-specific validation tags and
// struct-level validations on the app validator.
func RegisterValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(allRolesTag, allRolesValidation)
	core.RegisterCustomTranslation(validate, translator, allRolesTag, allRolesText)

	validate.RegisterStructValidation(userStructValidation, NewUser{}, NewStudent{}, NewAlumni{}, UpdateUser{})
	core.RegisterCustomTranslation(validate, translator, exclusiveRolesTag, exclusiveRolesText)
	core.RegisterCustomTranslation(validate, translator, pwdMinLenTag, pwdMinLenText)
	core.RegisterCustomTranslation(validate, translator, pwdNoSpaceTag, pwdNoSpaceText)
	core.RegisterCustomTranslation(validate, translator, pwdNotAllNumTag, pwdNotAllNumText)
}

// Custom Validators

// allRolesValidation checks that provided user roles are all in AllRoles.
func allRolesValidation(fl validator.FieldLevel) bool {
	if roles, ok := fl.Field().Interface().([]string); ok {
		sort.Strings(AllRoles)
		for _, role := range roles {
			idx := sort.SearchStrings(AllRoles, role)
			if idx >= len(AllRoles) || AllRoles[idx] != role {
				return false
			}
		}
		return true
	}
	return false
}

// userStructValidation does struct level validation on user payloads.
func userStructValidation(sl validator.StructLevel) {
	switch usr := sl.Current().Interface().(type) {
	case NewUser:
		validateExclusiveRoles(usr.Roles, sl)
		validatePassword(usr.Password, sl)
	case NewStudent:
		validatePassword(usr.Password, sl)
	case NewAlumni:
		validatePassword(usr.Password, sl)
	case UpdateUser:
		validateExclusiveRoles(usr.Roles, sl)
		if usr.Password != "" {
			validatePassword(usr.Password, sl)
		}
	}
}

// validateExclusiveRoles enforces that student and alumni roles are
// mutually exclusive: a user recognized by both identity probes would
// make the session contract ambiguous.
func validateExclusiveRoles(roles []string, sl validator.StructLevel) {
	var student, alumni bool
	for _, role := range roles {
		student = student || strings.HasPrefix(role, RoleStudent)
		alumni = alumni || strings.HasPrefix(role, RoleAlumni)
	}
	if student && alumni {
		sl.ReportError(roles, "roles", "Roles", exclusiveRolesTag, "")
	}
}

func validatePassword(pwd string, sl validator.StructLevel) {
	if len(pwd) < pwdMinLen {
		sl.ReportError(pwd, "password", "Password", pwdMinLenTag, "")
		return
	}

	var hasSpace, hasNonDigit bool
	for _, r := range pwd {
		if unicode.IsSpace(r) {
			hasSpace = true
		}
		if !unicode.IsDigit(r) {
			hasNonDigit = true
		}
	}
	if hasSpace {
		sl.ReportError(pwd, "password", "Password", pwdNoSpaceTag, "")
	}
	if !hasNonDigit {
		sl.ReportError(pwd, "password", "Password", pwdNotAllNumTag, "")
	}
}
