// utils/validator.go - Input validation
package utils

import (
	"os"
	"regexp"
	"strings"
)

// ValidateEmail checks if email is valid
func ValidateEmail(email string) bool {
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	return emailRegex.MatchString(email)
}

// EmailDomainAllowed checks the address against ALLOWED_EMAIL_DOMAIN.
// An empty setting allows every domain.
func EmailDomainAllowed(email string) bool {
	domain := strings.TrimSpace(os.Getenv("ALLOWED_EMAIL_DOMAIN"))
	if domain == "" {
		return true
	}
	domain = strings.TrimPrefix(domain, "@")
	return strings.HasSuffix(strings.ToLower(email), "@"+strings.ToLower(domain))
}

// ValidatePassword checks password strength
func ValidatePassword(password string) (bool, string) {
	if len(password) < 6 {
		return false, "Password must be at least 6 characters"
	}

	return true, ""
}

// SanitizeInput removes potentially harmful characters
func SanitizeInput(input string) string {
	// Remove leading/trailing spaces
	input = strings.TrimSpace(input)

	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	return input
}
