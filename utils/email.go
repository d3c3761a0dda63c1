package utils

import "strings"

// NormalizeEmail bringt eine Adresse auf die kanonische Form, in der
// Konten gespeichert und nachgeschlagen werden.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
