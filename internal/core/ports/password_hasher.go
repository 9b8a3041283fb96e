package ports

// PasswordHasher hides the password digest scheme.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}
