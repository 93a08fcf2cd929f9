// Package access deriva roles efectivos, rol primario y alcance de organizaciones
// a partir de las membresías de un usuario o de los claims de su sesión.
//
// Toda decisión de autorización (middleware RBAC, listados acotados por tenant)
// pasa por este paquete; ningún otro punto compara nombres de rol.
package access

import (
	"golang.org/x/text/cases"

	"github.com/jhoicas/opencms-api/internal/domain/entity"
)

// Kind enumeración cerrada de roles conocidos. KindOther conserva el nombre crudo.
type Kind int

const (
	KindOther Kind = iota
	KindReporter
	KindReviewer
	KindInvestigator
	KindAdministrator
	KindSuperUser
)

// Role rol clasificado.
type Role struct {
	Kind Kind
	Name string
}

var wellKnown = map[Kind]string{
	KindSuperUser:     entity.RoleNameSuperUser,
	KindAdministrator: entity.RoleNameAdministrator,
	KindInvestigator:  entity.RoleNameInvestigator,
	KindReviewer:      entity.RoleNameReviewer,
	KindReporter:      entity.RoleNameReporter,
}

// precedence orden estricto para el rol primario. Reporter no participa: es el valor por defecto.
var precedence = []Kind{KindSuperUser, KindAdministrator, KindInvestigator, KindReviewer}

// ParseRole clasifica un nombre de rol sin distinguir mayúsculas.
func ParseRole(name string) Role {
	folded := fold(name)
	for kind, known := range wellKnown {
		if fold(known) == folded {
			return Role{Kind: kind, Name: known}
		}
	}
	return Role{Kind: KindOther, Name: name}
}

// SameRole compara dos nombres de rol sin distinguir mayúsculas.
func SameRole(a, b string) bool {
	return fold(a) == fold(b)
}

// cases.Caser no es seguro entre goroutines; se crea uno por llamada.
func fold(s string) string {
	return cases.Fold().String(s)
}
