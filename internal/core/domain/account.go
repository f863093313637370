package domain

import (
	"strings"
	"time"
)

// Role is the single marketplace role an account holds for its whole lifetime.
type Role string

const (
	RoleClient     Role = "client"
	RoleContractor Role = "contractor"
	RoleAdmin      Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleContractor, RoleAdmin:
		return true
	}
	return false
}

// ContractorProfile holds the attributes only contractor accounts carry.
type ContractorProfile struct {
	Skills            []string `json:"skills" bson:"skills"`
	HourlyRate        float64  `json:"hourly_rate" bson:"hourly_rate"`
	Rating            float64  `json:"rating" bson:"rating"`
	CompletedProjects int      `json:"completed_projects" bson:"completed_projects"`
	Bio               string   `json:"bio,omitempty" bson:"bio,omitempty"`
}

// Account models a registered marketplace user.
type Account struct {
	ID           string             `json:"id"`
	Email        string             `json:"email"`
	FullName     string             `json:"full_name"`
	Role         Role               `json:"role"`
	PasswordHash string             `json:"-"`
	IsActive     bool               `json:"is_active"`
	Contractor   *ContractorProfile `json:"contractor,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// NormalizeEmail is the canonical form used for storage and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
