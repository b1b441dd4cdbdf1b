package validation

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	// EmailRegex validates email format
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// UUIDRegex validates UUID format
	uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

	// PhoneRegex accepts E.164 and common US formats, including a
	// leading area-code parenthesis
	phoneRegex = regexp.MustCompile(`^\+?[0-9(][0-9 .\-()]{6,19}$`)

	routingRegex = regexp.MustCompile(`^[0-9]{9}$`)
	accountRegex = regexp.MustCompile(`^[0-9]{4,17}$`)
)

// IsValidEmail checks if the string is a valid email format
func IsValidEmail(email string) bool {
	if len(email) > 254 {
		return false
	}
	return emailRegex.MatchString(email)
}

// IsValidUUID checks if the string is a valid UUID format
func IsValidUUID(id string) bool {
	return uuidRegex.MatchString(id)
}

// IsValidPhone checks if the string looks like a dialable phone number
func IsValidPhone(phone string) bool {
	return phoneRegex.MatchString(phone)
}

// IsValidRoutingNumber checks the ABA routing number format and checksum
func IsValidRoutingNumber(rn string) bool {
	if !routingRegex.MatchString(rn) {
		return false
	}
	// ABA checksum: 3(d1+d4+d7) + 7(d2+d5+d8) + (d3+d6+d9) mod 10 == 0
	sum := 0
	for i := 0; i < 9; i += 3 {
		sum += 3 * int(rn[i]-'0')
		sum += 7 * int(rn[i+1]-'0')
		sum += int(rn[i+2] - '0')
	}
	return sum%10 == 0
}

// IsValidAccountNumber checks the bank account number format
func IsValidAccountNumber(an string) bool {
	return accountRegex.MatchString(an)
}

// IsValidPassword checks password strength
func IsValidPassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters"
	}
	if len(password) > 128 {
		return false, "Password must be at most 128 characters"
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}

	if !hasUpper {
		return false, "Password must contain at least one uppercase letter"
	}
	if !hasLower {
		return false, "Password must contain at least one lowercase letter"
	}
	if !hasNumber {
		return false, "Password must contain at least one number"
	}

	return true, ""
}

// SanitizeString removes potentially dangerous characters for display
func SanitizeString(s string) string {
	// Remove null bytes
	s = strings.ReplaceAll(s, "\x00", "")

	// Remove control characters except newlines and tabs
	var result strings.Builder
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' || !unicode.IsControl(r) {
			result.WriteRune(r)
		}
	}

	return result.String()
}

// TruncateString truncates a string to maxLen characters
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}

// AllowedImageType reports whether the content type is an accepted upload
// format for request photos.
func AllowedImageType(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/webp", "image/heic":
		return true
	}
	return false
}

// AllowedDocumentType covers identity verification documents.
func AllowedDocumentType(contentType string) bool {
	if AllowedImageType(contentType) {
		return true
	}
	return contentType == "application/pdf"
}
