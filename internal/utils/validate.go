package utils

import "regexp"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail performs the loose shape check applied at registration.
func ValidEmail(email string) bool { return emailPattern.MatchString(email) }
