package model

import (
	"net/url"
	"strings"
)

// Role names as stored in credentials and carried in the JWT role claim.
const (
	RoleOwner  = "owner"
	RoleTenant = "tenant"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r string) bool { return r == RoleOwner || r == RoleTenant }

// User is a registered credential, persisted under the registeredUsers key.
// The email is the case-insensitive identity; it is stored lower-cased.
//
// Fields:
//
//	FullName     – name entered at registration.
//	Email        – unique, lower-cased.
//	PasswordHash – bcrypt hash of the password.
//	Role         – owner or tenant.
//	CreatedAt    – unix milliseconds.
type User struct {
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	Role         string `json:"role"`
	CreatedAt    int64  `json:"createdAt"`
}

// Profile is the record shown as the signed-in user: display name,
// email, role and avatar.  It is kept apart from the credential so that
// profile edits never touch the password hash.
type Profile struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Avatar string `json:"avatar"`
}

// DefaultAvatar builds the generated avatar URL used until the user sets one.
func DefaultAvatar(seed string) string {
	if seed == "" {
		seed = "User"
	}
	return "https://api.dicebear.com/7.x/avataaars/svg?seed=" + url.QueryEscape(seed)
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
