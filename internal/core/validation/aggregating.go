package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/foodhub/ordering-api/internal/core/domain"
)

const (
	MinPasswordLength = 6
	MaxUsernameLength = 50
	// strongPasswordLength is the length from which a password without digits
	// or special characters is no longer considered weak on that ground alone.
	strongPasswordLength = 8
)

var (
	emailRegex      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegex      = regexp.MustCompile(`^\+?[1-9]\d{0,15}$`)
	usernameRegex   = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	digitRegex      = regexp.MustCompile(`\d`)
	specialRegex    = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>?]`)
	onlyDigitsRegex = regexp.MustCompile(`^\d+$`)
	onlyLowerRegex  = regexp.MustCompile(`^[a-z]+$`)
)

// Mode selects how the contact fields (phone, address) are treated.
type Mode string

const (
	// ModeStrict requires phone and address. This is the active business rule.
	ModeStrict Mode = "strict"
	// ModeLenient makes phone and address optional; phone format is still
	// checked when a value is supplied.
	ModeLenient Mode = "lenient"
)

// ParseMode maps a configuration value to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeStrict, "":
		return ModeStrict, nil
	case ModeLenient:
		return ModeLenient, nil
	default:
		return "", fmt.Errorf("validation: unknown mode %q", s)
	}
}

// RegistrationInput is the account creation payload.
type RegistrationInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Phone    string
	Address  string
}

// LoginInput is the credential payload.
type LoginInput struct {
	Username string
	Password string
}

// ProfileInput is the profile update payload.
type ProfileInput struct {
	FullName string
	Phone    string
	Address  string
}

type requiredField struct {
	label string
	value func(RegistrationInput) string
}

var coreRequired = []requiredField{
	{label: "Username", value: func(r RegistrationInput) string { return r.Username }},
	{label: "Email", value: func(r RegistrationInput) string { return r.Email }},
	{label: "Password", value: func(r RegistrationInput) string { return r.Password }},
	{label: "FullName", value: func(r RegistrationInput) string { return r.FullName }},
}

var contactRequired = []requiredField{
	{label: "Phone", value: func(r RegistrationInput) string { return r.Phone }},
	{label: "Address", value: func(r RegistrationInput) string { return r.Address }},
}

// AggregatingValidator runs every rule and reports all violations together.
// Rules never short-circuit each other.
type AggregatingValidator struct {
	mode Mode
}

// NewAggregatingValidator returns a validator for the given mode.
func NewAggregatingValidator(mode Mode) *AggregatingValidator {
	if mode != ModeLenient {
		mode = ModeStrict
	}
	return &AggregatingValidator{mode: mode}
}

// Mode reports the active contact-field mode.
func (v *AggregatingValidator) Mode() Mode { return v.mode }

// ValidateRegistration checks an account creation payload.
func (v *AggregatingValidator) ValidateRegistration(in RegistrationInput) domain.ValidationResult {
	var errs []string

	for _, f := range coreRequired {
		if missing(f.value(in)) {
			errs = append(errs, f.label+" is required")
		}
	}
	if v.mode == ModeStrict {
		for _, f := range contactRequired {
			if missing(f.value(in)) {
				errs = append(errs, f.label+" is required")
			}
		}
	}

	errs = appendEmailErrors(errs, in.Email)
	errs = appendPasswordErrors(errs, in.Password)
	errs = appendUsernameErrors(errs, in.Username)
	errs = appendPhoneErrors(errs, in.Phone)

	return domain.NewValidationResult(errs)
}

// ValidateLogin only checks presence so that no format rule leaks through
// the login endpoint.
func (v *AggregatingValidator) ValidateLogin(in LoginInput) domain.ValidationResult {
	var errs []string
	if missing(in.Username) {
		errs = append(errs, "Username is required")
	}
	if missing(in.Password) {
		errs = append(errs, "Password is required")
	}
	return domain.NewValidationResult(errs)
}

// ValidateProfile checks a profile update. The contact fields follow the
// same mode as registration.
func (v *AggregatingValidator) ValidateProfile(in ProfileInput) domain.ValidationResult {
	var errs []string
	if missing(in.FullName) {
		errs = append(errs, "FullName is required")
	}
	if v.mode == ModeStrict {
		if missing(in.Phone) {
			errs = append(errs, "Phone is required")
		}
		if missing(in.Address) {
			errs = append(errs, "Address is required")
		}
	}
	errs = appendPhoneErrors(errs, in.Phone)
	return domain.NewValidationResult(errs)
}

func missing(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Format rules only run on supplied values; absence is reported by the
// required-field rules.

func appendEmailErrors(errs []string, email string) []string {
	if missing(email) {
		return errs
	}
	if !emailRegex.MatchString(email) {
		errs = append(errs, "Invalid email format")
	}
	return errs
}

func appendPasswordErrors(errs []string, password string) []string {
	if password == "" {
		return errs
	}
	length := utf8.RuneCountInString(password)
	if length < MinPasswordLength {
		errs = append(errs, fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength))
	}
	hasDigit := digitRegex.MatchString(password)
	hasSpecial := specialRegex.MatchString(password)
	if length < strongPasswordLength && !hasDigit && !hasSpecial {
		errs = append(errs, "Password is too weak")
	}
	if onlyDigitsRegex.MatchString(password) {
		errs = append(errs, "Password cannot be only numbers")
	}
	if onlyLowerRegex.MatchString(password) {
		errs = append(errs, "Password is too weak")
	}
	return errs
}

func appendUsernameErrors(errs []string, username string) []string {
	if missing(username) {
		return errs
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		errs = append(errs, "Username is too long")
	}
	if !usernameRegex.MatchString(username) {
		errs = append(errs, "Username contains invalid characters and can only contain letters, numbers, and underscores")
	}
	return errs
}

func appendPhoneErrors(errs []string, phone string) []string {
	if missing(phone) {
		return errs
	}
	if !phoneRegex.MatchString(phone) {
		errs = append(errs, "Invalid phone number format")
	}
	return errs
}
