package domain

import "time"

// Role classifies the kind of account trading on the marketplace.
type Role string

const (
	RoleIndividual   Role = "individual"
	RoleWorkshop     Role = "workshop"
	RoleCollector    Role = "collector"
	RoleOrganization Role = "organization"
	RoleCompany      Role = "company"
	RoleAdmin        Role = "admin"
)

// ValidRole reports whether the value is a known account role.
func ValidRole(r Role) bool {
	switch r {
	case RoleIndividual, RoleWorkshop, RoleCollector, RoleOrganization, RoleCompany, RoleAdmin:
		return true
	}
	return false
}

// User is the domain model for marketplace accounts.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         Role
	Phone        string
	Location     string
	Organization string
	Bio          string
	Verified     bool
	Rating       float64
	TotalDeals   int
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
