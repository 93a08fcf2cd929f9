package entity

// Nombres de roles conocidos (coinciden con los datos semilla de la tabla role).
const (
	RoleNameSuperUser     = "Super User"
	RoleNameAdministrator = "Administrator"
	RoleNameInvestigator  = "Investigator"
	RoleNameReviewer      = "Reviewer"
	RoleNameReporter      = "Reporter"
)

// Role dato de referencia estático.
type Role struct {
	ID          int16
	Name        string
	Description string
}

// IDs de los roles semilla.
const (
	RoleIDSuperUser     int16 = 1
	RoleIDAdministrator int16 = 2
	RoleIDInvestigator  int16 = 3
	RoleIDReviewer      int16 = 4
	RoleIDReporter      int16 = 5
)
