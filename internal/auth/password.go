package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost matches the work factor the stored hashes were created with.
const bcryptCost = 10

// HashPassword derives a salted one-way hash of the plaintext password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword reports whether the plaintext password matches the
// stored hash. A malformed stored hash verifies false rather than
// returning an error; the comparison itself is delegated to bcrypt.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
