package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword erzeugt einen bcrypt-Hash mit Default-Cost.
func HashPassword(raw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	return string(b), err
}

// CheckPassword vergleicht Hash und Klartext.
func CheckPassword(hash, raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}
