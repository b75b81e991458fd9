package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/cms/dashboard/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Member represents a CMS admin user.
// It is the aggregate root for member-related operations.
type Member struct {
	shared.BaseAggregateRoot
	Email        string
	DisplayName  string
	PasswordHash string
	Permissions  []string
	// HasConfiguredDashboard is set once the default layout has been copied
	// to this member; it is never repeated afterwards, even if the member
	// deletes every panel.
	HasConfiguredDashboard bool
	LastLoginAt            *time.Time
}

// NewMember creates a new member with the given credentials
func NewMember(email, password string, permissions []string) (*Member, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &Member{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		PasswordHash:      string(hash),
		Permissions:       dedupe(permissions),
	}, nil
}

// SetDisplayName sets the member's display name
func (m *Member) SetDisplayName(name string) error {
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_DISPLAY_NAME", "Display name cannot exceed 200 characters")
	}
	m.DisplayName = strings.TrimSpace(name)
	m.Touch()
	m.IncrementVersion()
	return nil
}

// VerifyPassword verifies if the provided password matches
func (m *Member) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(password)) == nil
}

// HasPermission reports whether the member holds the named permission.
// Admin implies every permission.
func (m *Member) HasPermission(permission string) bool {
	for _, p := range m.Permissions {
		if p == PermissionAdmin || p == permission {
			return true
		}
	}
	return false
}

// GrantPermission adds a permission to the member's set
func (m *Member) GrantPermission(permission string) {
	for _, p := range m.Permissions {
		if p == permission {
			return
		}
	}
	m.Permissions = append(m.Permissions, permission)
	m.Touch()
	m.IncrementVersion()
}

// RevokePermission removes a permission from the member's set
func (m *Member) RevokePermission(permission string) {
	kept := m.Permissions[:0]
	for _, p := range m.Permissions {
		if p != permission {
			kept = append(kept, p)
		}
	}
	m.Permissions = kept
	m.Touch()
	m.IncrementVersion()
}

// MarkDashboardConfigured records that the default layout has been applied
func (m *Member) MarkDashboardConfigured() {
	m.HasConfiguredDashboard = true
	m.Touch()
	m.IncrementVersion()
}

// RecordLogin records a successful login
func (m *Member) RecordLogin() {
	now := time.Now()
	m.LastLoginAt = &now
	m.Touch()
	m.IncrementVersion()
}

// DisplayNameOrEmail returns the display name if set, otherwise the email
func (m *Member) DisplayNameOrEmail() string {
	if m.DisplayName != "" {
		return m.DisplayName
	}
	return m.Email
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 128 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 128 characters")
	}
	return nil
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
