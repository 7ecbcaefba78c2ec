package ports

// PasswordHasher is a one-way, verifiable password hash.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}
