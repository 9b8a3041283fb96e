package service

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/foodhub/ordering-api/internal/core/domain"
	"github.com/foodhub/ordering-api/internal/core/validation"
)

func newTestAuthService(t *testing.T, mode validation.Mode) (*AuthService, *stubUserRepo) {
	t.Helper()
	repo := newStubUserRepo()
	svc := NewAuthService(
		repo,
		NewBcryptHasher(bcrypt.MinCost),
		newTestTokenService(t),
		validation.NewAggregatingValidator(mode),
		zerolog.Nop(),
	)
	return svc, repo
}

func johnDoe() validation.RegistrationInput {
	return validation.RegistrationInput{
		Username: "john_doe",
		Email:    "john@example.com",
		Password: "SecurePass123!",
		FullName: "John Doe",
		Phone:    "+1234567890",
		Address:  "123 Main St",
	}
}

func validationErrors(t *testing.T, err error) []string {
	t.Helper()
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	return ve.Errors
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, repo := newTestAuthService(t, validation.ModeStrict)

	res, err := svc.Register(context.Background(), johnDoe())
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token")
	}
	if res.User.Role != domain.RoleUser {
		t.Fatalf("unexpected role: %s", res.User.Role)
	}

	stored := repo.users[res.User.ID]
	if stored.PasswordHash == "SecurePass123!" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("SecurePass123!")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	id, err := svc.tokens.Verify(res.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if id.UserID != res.User.ID || id.Role != domain.RoleUser {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestAuthService_Register_AggregatesErrors(t *testing.T) {
	svc, repo := newTestAuthService(t, validation.ModeStrict)

	_, err := svc.Register(context.Background(), validation.RegistrationInput{
		Username: "bad user!",
		Email:    "not-an-email",
		Password: "123",
		FullName: "Bad",
		Phone:    "abc",
		Address:  "Somewhere",
	})
	got := validationErrors(t, err)
	want := []string{
		"Invalid email format",
		"Password must be at least 6 characters long",
		"Password cannot be only numbers",
		"Username contains invalid characters and can only contain letters, numbers, and underscores",
		"Invalid phone number format",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("errors = %q\nwant %q", got, want)
	}
	if len(repo.users) != 0 {
		t.Fatalf("invalid registration must not be stored")
	}
}

func TestAuthService_Register_ContactFieldsByMode(t *testing.T) {
	in := johnDoe()
	in.Phone, in.Address = "", ""

	strict, _ := newTestAuthService(t, validation.ModeStrict)
	if _, err := strict.Register(context.Background(), in); err == nil {
		t.Fatalf("strict mode must require phone and address")
	}

	lenient, _ := newTestAuthService(t, validation.ModeLenient)
	if _, err := lenient.Register(context.Background(), in); err != nil {
		t.Fatalf("lenient mode rejected optional contact fields: %v", err)
	}
}

func TestAuthService_Register_SanitizesBeforeStoring(t *testing.T) {
	svc, repo := newTestAuthService(t, validation.ModeStrict)
	in := johnDoe()
	in.FullName = "John <script>alert(1)</script>Doe"
	in.Address = "1 Main St; DROP TABLE users"

	res, err := svc.Register(context.Background(), in)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	stored := repo.users[res.User.ID]
	if strings.Contains(stored.FullName, "<script") || strings.Contains(stored.Address, ";") {
		t.Fatalf("unsanitized values stored: %q / %q", stored.FullName, stored.Address)
	}
	if !svc.hasher.Verify("SecurePass123!", stored.PasswordHash) {
		t.Fatalf("password must be hashed as supplied")
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc, _ := newTestAuthService(t, validation.ModeStrict)
	if _, err := svc.Register(context.Background(), johnDoe()); err != nil {
		t.Fatalf("first register: %v", err)
	}

	sameName := johnDoe()
	sameName.Email = "other@example.com"
	if _, err := svc.Register(context.Background(), sameName); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	sameEmail := johnDoe()
	sameEmail.Username = "jane_doe"
	if _, err := svc.Register(context.Background(), sameEmail); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	svc, _ := newTestAuthService(t, validation.ModeStrict)
	reg, err := svc.Register(context.Background(), johnDoe())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	res, err := svc.Login(context.Background(), validation.LoginInput{Username: "john_doe", Password: "SecurePass123!"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.Token == "" || res.User.ID != reg.User.ID {
		t.Fatalf("unexpected login result: %+v", res)
	}

	for _, in := range []validation.LoginInput{
		{Username: "john_doe", Password: "WrongPass123!"},
		{Username: "nobody", Password: "SecurePass123!"},
	} {
		if _, err := svc.Login(context.Background(), in); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("login %q: expected ErrInvalidCredentials, got %v", in.Username, err)
		}
	}
}

func TestAuthService_Login_MissingFields(t *testing.T) {
	svc, _ := newTestAuthService(t, validation.ModeStrict)
	_, err := svc.Login(context.Background(), validation.LoginInput{})

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Shape != domain.ShapeSingle {
		t.Fatalf("login failures render as a single message")
	}
}

func TestAuthService_UpdateProfile(t *testing.T) {
	svc, _ := newTestAuthService(t, validation.ModeStrict)
	reg, err := svc.Register(context.Background(), johnDoe())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	u, err := svc.UpdateProfile(context.Background(), reg.User.ID, validation.ProfileInput{
		FullName: "Johnny Doe",
		Phone:    "+19998887777",
		Address:  "9 Elm St",
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if u.FullName != "Johnny Doe" || u.Phone != "+19998887777" || u.Address != "9 Elm St" {
		t.Fatalf("profile not updated: %+v", u)
	}
	if u.Role != domain.RoleUser {
		t.Fatalf("profile update must not touch the role")
	}

	if _, err := svc.UpdateProfile(context.Background(), reg.User.ID, validation.ProfileInput{FullName: "J", Phone: "bad"}); err == nil {
		t.Fatalf("expected validation error for bad phone")
	}
}
