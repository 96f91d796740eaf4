package entity

import "time"

// Role is a closed enumeration of account roles. A user's role is fixed at
// creation and never changes.
type Role string

const (
	RoleDonor      Role = "DONOR"
	RoleReceiver   Role = "RECEIVER"
	RoleSuperadmin Role = "SUPERADMIN"
)

// ParseRole maps a wire value onto a Role. Only DONOR and RECEIVER are
// valid self-registration roles; SUPERADMIN exists solely for the bootstrap
// account, so callers validating registration input should use
// IsRegistrable instead.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleDonor, RoleReceiver, RoleSuperadmin:
		return Role(s), true
	}
	return "", false
}

// IsRegistrable reports whether the role may be chosen at self-registration.
func (r Role) IsRegistrable() bool {
	switch r {
	case RoleDonor, RoleReceiver:
		return true
	case RoleSuperadmin:
		return false
	}
	return false
}

// Status is a closed enumeration of account lifecycle states.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	StatusBlocked  Status = "BLOCKED"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusApproved, StatusRejected, StatusBlocked:
		return Status(s), true
	}
	return "", false
}

// User is the aggregate root for the account domain.
// Password holds the bcrypt hash, never plaintext.
type User struct {
	ID            string
	Email         string
	Password      string
	FirstName     string
	LastName      string
	PhoneNumber   string
	AadhaarNumber string
	Address       string
	City          string
	State         string
	Pincode       string
	Latitude      *float64
	Longitude     *float64
	AvatarURL     string
	Role          Role
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ApprovedAt    *time.Time
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// AuthUser is the minimal projection the session resolver re-fetches on
// every request: enough to authorize, nothing more.
type AuthUser struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	Role      Role
	Status    Status
}

// Allowed is the authorization gate: deny absent identities, deny anything
// not APPROVED, then require the role to be in the allowed set. Even a
// SUPERADMIN identity is denied while not APPROVED.
func (u *AuthUser) Allowed(roles ...Role) bool {
	if u == nil {
		return false
	}
	if u.Status != StatusApproved {
		return false
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}
