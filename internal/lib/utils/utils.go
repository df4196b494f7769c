package utils

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var digitsPattern = regexp.MustCompile(`^\d+$`)

// NormalizeShopName trims and lowercases a shop name. Shops are stored and
// looked up under this normalized form.
func NormalizeShopName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidContactNo reports whether s is a 10-digit phone number.
func ValidContactNo(s string) bool {
	return len(s) == 10 && digitsPattern.MatchString(s)
}

// ParseClock converts a "h:mm AM/PM" shop hour into minutes after midnight,
// for comparing open and close times. Returns -1 when unparseable.
func ParseClock(s string) int {
	parts := strings.Fields(strings.TrimSpace(s))
	if len(parts) != 2 {
		return -1
	}

	hm := strings.Split(parts[0], ":")
	if len(hm) != 2 {
		return -1
	}

	hours, minutes := atoi(hm[0]), atoi(hm[1])
	if hours < 1 || hours > 12 || minutes < 0 || minutes > 59 {
		return -1
	}

	switch strings.ToLower(parts[1]) {
	case "pm":
		if hours != 12 {
			hours += 12
		}
	case "am":
		if hours == 12 {
			hours = 0
		}
	default:
		return -1
	}

	return hours*60 + minutes
}

func atoi(s string) int {
	if !digitsPattern.MatchString(s) {
		return -1
	}
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}

// Contains checks if a string exists in a slice
func Contains(slice []string, str string) bool {
	for _, v := range slice {
		if v == str {
			return true
		}
	}
	return false
}

// RemoveEmpty removes empty strings from a slice
func RemoveEmpty(slice []string) []string {
	var result []string
	for _, v := range slice {
		if v != "" {
			result = append(result, v)
		}
	}
	return result
}
