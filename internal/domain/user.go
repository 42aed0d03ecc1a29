package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleNormal Role = "normal"
)

// AdminType refines the admin role for fine-grained authorization.
type AdminType string

const (
	AdminFacility       AdminType = "facility"
	AdminSecurity       AdminType = "security"
	AdminStudentAffairs AdminType = "student_affairs"
)

// NormalUserType refines the normal role.
type NormalUserType string

const (
	NormalStudent     NormalUserType = "student"
	NormalClub        NormalUserType = "club"
	NormalLecturer    NormalUserType = "lecturer"
	NormalAssociation NormalUserType = "association"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleNormal:
		return Role(s), true
	default:
		return "", false
	}
}

func ParseAdminType(s string) (AdminType, bool) {
	switch AdminType(s) {
	case AdminFacility, AdminSecurity, AdminStudentAffairs:
		return AdminType(s), true
	default:
		return "", false
	}
}

func ParseNormalUserType(s string) (NormalUserType, bool) {
	switch NormalUserType(s) {
	case NormalStudent, NormalClub, NormalLecturer, NormalAssociation:
		return NormalUserType(s), true
	default:
		return "", false
	}
}

type User struct {
	ID           int64      `json:"id"`
	Role         Role       `json:"role"`
	AdminType    *AdminType `json:"admin_type,omitempty"`
	NormalType   *NormalUserType `json:"normal_type,omitempty"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	IsActive     bool       `json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// SubType returns the role refinement as a wire string, whichever side
// of the admin/normal split is set.
func (u *User) SubType() string {
	if u.AdminType != nil {
		return string(*u.AdminType)
	}
	if u.NormalType != nil {
		return string(*u.NormalType)
	}
	return ""
}

type SignupRequest struct {
	Role     string `json:"role"`
	SubType  string `json:"sub_type"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	User        *UserInfo `json:"user"`
}

// UserInfo is the caller-facing projection of a User; it never carries
// the password hash.
type UserInfo struct {
	ID       int64  `json:"id"`
	Role     string `json:"role"`
	SubType  string `json:"sub_type"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

func (u *User) ToUserInfo() *UserInfo {
	return &UserInfo{
		ID:       u.ID,
		Role:     string(u.Role),
		SubType:  u.SubType(),
		Name:     u.Name,
		Email:    u.Email,
		IsActive: u.IsActive,
	}
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func (r *SignupRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Name = strings.TrimSpace(r.Name)
	r.Role = strings.TrimSpace(r.Role)
	r.SubType = strings.TrimSpace(r.SubType)
	if r.Role == string(RoleNormal) && r.SubType == "" {
		r.SubType = string(NormalStudent)
	}
}

// Validate checks the request fields before any storage access.
// The role/sub-type pairing is validated here, at construction time,
// so an inconsistent combination can never reach the repository.
func (r *SignupRequest) Validate(minPasswordLength int) error {
	if r.Email == "" || r.Password == "" || r.Name == "" || r.Role == "" {
		return ErrMissingFields
	}
	if !emailRegex.MatchString(r.Email) {
		return fmt.Errorf("%w: invalid email format", ErrMissingFields)
	}
	if len(r.Password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrMissingFields, minPasswordLength)
	}

	role, ok := ParseRole(r.Role)
	if !ok {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidRoleSubtype, r.Role)
	}

	switch role {
	case RoleAdmin:
		if _, ok := ParseAdminType(r.SubType); !ok {
			return fmt.Errorf("%w: admin users need an admin sub-type", ErrInvalidRoleSubtype)
		}
	case RoleNormal:
		if _, ok := ParseNormalUserType(r.SubType); !ok {
			return fmt.Errorf("%w: normal users need a user sub-type", ErrInvalidRoleSubtype)
		}
	}
	return nil
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *LoginRequest) Validate() error {
	if r.Email == "" || r.Password == "" {
		return ErrMissingFields
	}
	return nil
}
